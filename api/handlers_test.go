package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timbrature/trip-engine/store/sqlite"
)

// testServer spins up the full router over an in-memory database.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(NewRouter(NewHandler(store)))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// seedEmployee configures a company and one employee with three short trip
// Saturdays and three full weekdays in March 2025.
func seedEmployee(t *testing.T, srv *httptest.Server, id string) {
	t.Helper()
	resp := do(t, srv, http.MethodPut, "/api/employees/"+id, EmployeeRequest{CompanyID: "acme"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	saturday := "business_trip"
	rate := 31.0
	policy := "meal_vouchers_only"
	minHours := 6.0
	resp = do(t, srv, http.MethodPut, "/api/companies/acme/settings", SettingsRequest{
		SaturdayHandling:    &saturday,
		SaturdayHourlyRate:  &rate,
		MealAllowancePolicy: &policy,
		MealVoucherMinHours: &minHours,
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	for _, day := range []int{1, 8, 15} {
		resp = do(t, srv, http.MethodPut, "/api/employees/"+id+"/work-days", WorkDayRequest{
			Date: fmt.Sprintf("2025-03-%02d", day), TotalHours: 1, IsSaturday: true,
		})
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}
	for _, day := range []int{3, 4, 5} {
		resp = do(t, srv, http.MethodPut, "/api/employees/"+id+"/work-days", WorkDayRequest{
			Date: fmt.Sprintf("2025-03-%02d", day), TotalHours: 8,
		})
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}
}

func TestAPI_TripSummary(t *testing.T) {
	srv := testServer(t)
	seedEmployee(t, srv, "emp-1")

	resp := do(t, srv, http.MethodGet, "/api/employees/emp-1/trip-summary?month=2025-03", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := decodeJSON[SummaryDTO](t, resp)
	assert.Equal(t, "emp-1", summary.EmployeeID)
	assert.Equal(t, 3, summary.StandardizedDays)
	assert.Equal(t, 3, summary.ActualWorkingDays)
	assert.InDelta(t, 93.0, summary.TotalAmount, 0.001)
	assert.InDelta(t, 31.0, summary.DailyRate, 0.001)
	assert.True(t, summary.MealInclusiveRate)
}

func TestAPI_TripSummary_MissingMonth(t *testing.T) {
	srv := testServer(t)

	resp := do(t, srv, http.MethodGet, "/api/employees/emp-1/trip-summary", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_TripSummary_UnconfiguredCompany(t *testing.T) {
	srv := testServer(t)
	resp := do(t, srv, http.MethodPut, "/api/employees/emp-1/work-days", WorkDayRequest{
		Date: "2025-03-03", TotalHours: 8,
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/employees/emp-1/trip-summary?month=2025-03", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAPI_LedgerManualDeltaAndCorrections(t *testing.T) {
	srv := testServer(t)
	seedEmployee(t, srv, "emp-1")

	resp := do(t, srv, http.MethodPost, "/api/employees/emp-1/conversion-ledger/manual-delta", ManualDeltaRequest{
		Month: "2025-03", DeltaHours: 4, Note: "requested",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ledger := decodeJSON[LedgerDTO](t, resp)
	assert.InDelta(t, 4.0, ledger.ManualHours, 0.001)

	resp = do(t, srv, http.MethodGet, "/api/employees/emp-1/conversion-ledger?month=2025-03", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ledger = decodeJSON[LedgerDTO](t, resp)
	assert.InDelta(t, 4.0, ledger.TotalHours, 0.001)

	resp = do(t, srv, http.MethodGet, "/api/employees/emp-1/conversion-ledger/corrections?month=2025-03", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	corrections := decodeJSON[[]CorrectionDTO](t, resp)
	require.Len(t, corrections, 1)
	assert.Equal(t, "requested", corrections[0].Note)
}

func TestAPI_BatchCompute_DefaultsToAllEmployees(t *testing.T) {
	srv := testServer(t)
	seedEmployee(t, srv, "emp-1")
	seedEmployee(t, srv, "emp-2")

	resp := do(t, srv, http.MethodPost, "/api/trip-summaries/compute", ComputeBatchRequest{
		Month: "2025-03",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	results := decodeJSON[[]BatchResultDTO](t, resp)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.Empty(t, res.Error)
		require.NotNil(t, res.Summary)
		assert.Equal(t, 3, res.Summary.StandardizedDays)
	}
}

func TestAPI_EmployeeRequiresCompany(t *testing.T) {
	srv := testServer(t)

	resp := do(t, srv, http.MethodPut, "/api/employees/emp-1", EmployeeRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
