/*
handlers.go - HTTP handler implementations

PURPOSE:
  Connects the HTTP surface to the reconciliation engine and the SQLite
  store. Handlers validate input, call the engine or store, and translate
  domain errors into status codes:

    ErrNotConfigured  -> 422 (the company was never configured)
    ErrInvalidMonth   -> 400
    anything else     -> 500

  Summaries carrying warnings still return 200: a warning is a computed
  result with an incomplete audit trail, not a failure.

SEE ALSO:
  - server.go: route wiring
  - dto.go: request/response shapes
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/timbrature/trip-engine/store/sqlite"
	"github.com/timbrature/trip-engine/trip"
)

// Handler holds the engine and store dependencies for all routes.
type Handler struct {
	Store  *sqlite.Store
	Engine *trip.Engine
}

func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:  store,
		Engine: trip.NewEngine(store, store, store, store),
	}
}

// =============================================================================
// SUMMARIES
// =============================================================================

// GetTripSummary computes the monthly summary for one employee.
// GET /api/employees/{id}/trip-summary?month=YYYY-MM
func (h *Handler) GetTripSummary(w http.ResponseWriter, r *http.Request) {
	employeeID := trip.EmployeeID(chi.URLParam(r, "id"))
	month := r.URL.Query().Get("month")
	if month == "" {
		writeError(w, http.StatusBadRequest, "month query parameter is required", nil)
		return
	}

	summary, err := h.Engine.ComputeSummary(r.Context(), employeeID, month)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// ComputeBatch computes summaries for many employees in parallel.
// POST /api/trip-summaries/compute
func (h *Handler) ComputeBatch(w http.ResponseWriter, r *http.Request) {
	var req ComputeBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ids := make([]trip.EmployeeID, 0, len(req.EmployeeIDs))
	for _, id := range req.EmployeeIDs {
		ids = append(ids, trip.EmployeeID(id))
	}
	if len(ids) == 0 {
		all, err := h.Store.ListEmployees(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list employees", err)
			return
		}
		ids = all
	}

	results, err := h.Engine.ComputeAll(r.Context(), ids, req.Month)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	out := make([]BatchResultDTO, 0, len(results))
	for _, res := range results {
		dto := BatchResultDTO{EmployeeID: string(res.EmployeeID)}
		if res.Err != nil {
			dto.Error = res.Err.Error()
		} else {
			s := toSummaryDTO(res.Summary)
			dto.Summary = &s
		}
		out = append(out, dto)
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// CONVERSION LEDGER
// =============================================================================

// GetLedger returns the conversion ledger row, creating it lazily.
// GET /api/employees/{id}/conversion-ledger?month=YYYY-MM
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	employeeID := trip.EmployeeID(chi.URLParam(r, "id"))
	month, err := trip.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month", err)
		return
	}

	ledger, err := h.Store.GetOrCreate(r.Context(), employeeID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load ledger", err)
		return
	}
	writeJSON(w, http.StatusOK, toLedgerDTO(ledger))
}

// ApplyManualDelta applies an administrator conversion adjustment.
// POST /api/employees/{id}/conversion-ledger/manual-delta
func (h *Handler) ApplyManualDelta(w http.ResponseWriter, r *http.Request) {
	employeeID := trip.EmployeeID(chi.URLParam(r, "id"))

	var req ManualDeltaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	month, err := trip.ParseMonth(req.Month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month", err)
		return
	}

	ledger, err := h.Store.ApplyManualDelta(r.Context(), employeeID, month,
		decimal.NewFromFloat(req.DeltaHours), req.Note)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to apply delta", err)
		return
	}
	writeJSON(w, http.StatusOK, toLedgerDTO(ledger))
}

// GetCorrections returns the ledger's audit trail.
// GET /api/employees/{id}/conversion-ledger/corrections?month=YYYY-MM
func (h *Handler) GetCorrections(w http.ResponseWriter, r *http.Request) {
	employeeID := trip.EmployeeID(chi.URLParam(r, "id"))
	month, err := trip.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month", err)
		return
	}

	corrections, err := h.Store.Corrections(r.Context(), employeeID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load corrections", err)
		return
	}
	out := make([]CorrectionDTO, 0, len(corrections))
	for _, c := range corrections {
		out = append(out, CorrectionDTO{
			DeltaHours: f(c.DeltaHours),
			Note:       c.Note,
			CreatedAt:  c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// INGESTION (collaboration seam with the timesheet system)
// =============================================================================

// UpsertEmployee registers an employee and company.
// PUT /api/employees/{id}
func (h *Handler) UpsertEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := trip.EmployeeID(chi.URLParam(r, "id"))

	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.CompanyID == "" {
		writeError(w, http.StatusBadRequest, "company_id is required", nil)
		return
	}
	if err := h.Store.UpsertEmployee(r.Context(), employeeID, req.CompanyID, req.Name); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpsertWorkDay writes one worked-time entry.
// PUT /api/employees/{id}/work-days
func (h *Handler) UpsertWorkDay(w http.ResponseWriter, r *http.Request) {
	employeeID := trip.EmployeeID(chi.URLParam(r, "id"))

	var req WorkDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	date, err := trip.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	record := trip.WorkDayRecord{
		EmployeeID:    employeeID,
		Date:          date,
		TotalHours:    decimal.NewFromFloat(req.TotalHours),
		LunchHours:    decimal.NewFromFloat(req.LunchHours),
		OvertimeHours: decimal.NewFromFloat(req.OvertimeHours),
		IsSaturday:    req.IsSaturday,
		IsHoliday:     req.IsHoliday,
	}
	if err := h.Store.UpsertWorkDay(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save work day", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpsertAbsence writes one absence entry.
// PUT /api/employees/{id}/absences
func (h *Handler) UpsertAbsence(w http.ResponseWriter, r *http.Request) {
	employeeID := trip.EmployeeID(chi.URLParam(r, "id"))

	var req AbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	date, err := trip.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	absence := trip.AbsenceRecord{
		EmployeeID: employeeID,
		Date:       date,
		Type:       trip.AbsenceType(req.Type),
		Hours:      decimal.NewFromFloat(req.Hours),
	}
	if err := h.Store.UpsertAbsence(r.Context(), absence); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save absence", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SETTINGS
// =============================================================================

// PutCompanySettings writes company-wide defaults.
// PUT /api/companies/{id}/settings
func (h *Handler) PutCompanySettings(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "id")

	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	record, err := req.toRecord()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings", err)
		return
	}
	if err := h.Store.SaveCompanySettings(r.Context(), companyID, record); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutEmployeeSettings writes one time-versioned override row.
// PUT /api/employees/{id}/settings
func (h *Handler) PutEmployeeSettings(w http.ResponseWriter, r *http.Request) {
	employeeID := trip.EmployeeID(chi.URLParam(r, "id"))

	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.ValidFrom == "" {
		writeError(w, http.StatusBadRequest, "valid_from is required for employee settings", nil)
		return
	}
	record, err := req.toRecord()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings", err)
		return
	}
	if err := h.Store.SaveEmployeeSettings(r.Context(), employeeID, record); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	body := map[string]string{"error": msg}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trip.ErrInvalidMonth):
		writeError(w, http.StatusBadRequest, "invalid month", err)
	case errors.Is(err, trip.ErrNotConfigured):
		writeError(w, http.StatusUnprocessableEntity, "company settings not configured", err)
	default:
		writeError(w, http.StatusInternalServerError, "computation failed", err)
	}
}
