/*
Package sqlite provides a SQLite-backed implementation of the trip engine's
storage interfaces.

PURPOSE:
  Implements trip.WorkDayStore, trip.AbsenceStore, trip.SettingsStore and
  trip.LedgerStore over SQLite. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  employees:          employee -> company mapping
  work_day_records:   one worked-time entry per (employee, date)
  absences:           one absence per (employee, date)
  company_settings:   company-wide defaults, nullable per field
  employee_settings:  per-employee time-versioned overrides
  conversion_ledger:  one row per (employee, month), lazily created
  ledger_corrections: append-only audit trail of every manual/corrective delta

LEDGER CONCURRENCY:
  ApplyManualDelta runs as a single immediate transaction: read current
  manual hours, add the delta, clamp at zero, write, append the audit row.
  Automatic monthly processing and admin edits can race on the same row;
  the transaction makes the read-modify-write atomic so a blind overwrite
  can never lose a concurrent delta. The DSN uses _txlock=immediate so the
  write lock is taken at BEGIN, not at first write.

DECIMALS:
  Hours and amounts are stored as TEXT and parsed with shopspring/decimal.
  SQLite REAL would reintroduce the float rounding the engine exists to avoid.

WAL MODE:
  Opened with WAL for better read concurrency and crash recovery.

SEE ALSO:
  - trip/store.go: interface contracts
  - trip/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/timbrature/trip-engine/trip"
)

// Store implements all trip storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

var (
	_ trip.WorkDayStore  = (*Store)(nil)
	_ trip.AbsenceStore  = (*Store)(nil)
	_ trip.SettingsStore = (*Store)(nil)
	_ trip.LedgerStore   = (*Store)(nil)
)

// New creates a SQLite store at dbPath. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT
	);

	CREATE TABLE IF NOT EXISTS work_day_records (
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		lunch_hours TEXT NOT NULL DEFAULT '0',
		overtime_hours TEXT NOT NULL DEFAULT '0',
		is_saturday INTEGER NOT NULL DEFAULT 0,
		is_holiday INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (employee_id, date)
	);

	CREATE TABLE IF NOT EXISTS absences (
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		absence_type TEXT NOT NULL,
		hours TEXT NOT NULL DEFAULT '0',
		PRIMARY KEY (employee_id, date)
	);

	CREATE TABLE IF NOT EXISTS company_settings (
		company_id TEXT PRIMARY KEY,
		saturday_handling TEXT,
		saturday_hourly_rate TEXT,
		meal_allowance_policy TEXT,
		meal_voucher_min_hours TEXT,
		allowance_min_hours TEXT,
		allowance_amount TEXT,
		trip_rate_with_meal TEXT,
		trip_rate_without_meal TEXT,
		conversion_enabled INTEGER,
		conversion_rate TEXT,
		conversion_limit TEXT
	);

	CREATE TABLE IF NOT EXISTS employee_settings (
		employee_id TEXT NOT NULL,
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		saturday_handling TEXT,
		saturday_hourly_rate TEXT,
		meal_allowance_policy TEXT,
		meal_voucher_min_hours TEXT,
		allowance_min_hours TEXT,
		allowance_amount TEXT,
		trip_rate_with_meal TEXT,
		trip_rate_without_meal TEXT,
		conversion_enabled INTEGER,
		conversion_rate TEXT,
		conversion_limit TEXT,
		PRIMARY KEY (employee_id, valid_from)
	);

	CREATE TABLE IF NOT EXISTS conversion_ledger (
		employee_id TEXT NOT NULL,
		month TEXT NOT NULL, -- canonical YYYY-MM-01
		automatic_hours TEXT NOT NULL DEFAULT '0',
		manual_hours TEXT NOT NULL DEFAULT '0',
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, month)
	);

	-- Append-only: every delta ever applied, for audit.
	CREATE TABLE IF NOT EXISTS ledger_corrections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL,
		month TEXT NOT NULL,
		delta_hours TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_work_day_records_employee_date
		ON work_day_records(employee_id, date);
	CREATE INDEX IF NOT EXISTS idx_absences_employee_date
		ON absences(employee_id, date);
	CREATE INDEX IF NOT EXISTS idx_ledger_corrections_employee_month
		ON ledger_corrections(employee_id, month);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// UpsertEmployee registers an employee and their company.
func (s *Store) UpsertEmployee(ctx context.Context, id trip.EmployeeID, companyID, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, company_id, name) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET company_id = excluded.company_id, name = excluded.name`,
		string(id), companyID, name)
	return err
}

// ListEmployees returns all registered employee IDs, ordered.
func (s *Store) ListEmployees(ctx context.Context) ([]trip.EmployeeID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trip.EmployeeID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, trip.EmployeeID(id))
	}
	return out, rows.Err()
}

// =============================================================================
// WORK DAYS / ABSENCES
// =============================================================================

// UpsertWorkDay writes one worked-time entry (the ingestion seam for the
// timesheet system).
func (s *Store) UpsertWorkDay(ctx context.Context, r trip.WorkDayRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO work_day_records
			(employee_id, date, total_hours, lunch_hours, overtime_hours, is_saturday, is_holiday)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			total_hours = excluded.total_hours,
			lunch_hours = excluded.lunch_hours,
			overtime_hours = excluded.overtime_hours,
			is_saturday = excluded.is_saturday,
			is_holiday = excluded.is_holiday`,
		string(r.EmployeeID), r.Date.String(),
		r.TotalHours.String(), r.LunchHours.String(), r.OvertimeHours.String(),
		boolToInt(r.IsSaturday), boolToInt(r.IsHoliday))
	return err
}

func (s *Store) ListWorkDays(ctx context.Context, id trip.EmployeeID, month trip.Month) ([]trip.WorkDayRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, total_hours, lunch_hours, overtime_hours, is_saturday, is_holiday
		FROM work_day_records
		WHERE employee_id = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		string(id), month.First().String(), month.Last().String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trip.WorkDayRecord
	for rows.Next() {
		var (
			dateStr, total, lunch, overtime string
			saturday, holiday               int
		)
		if err := rows.Scan(&dateStr, &total, &lunch, &overtime, &saturday, &holiday); err != nil {
			return nil, err
		}
		date, err := trip.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		r := trip.WorkDayRecord{
			EmployeeID: id,
			Date:       date,
			IsSaturday: saturday != 0,
			IsHoliday:  holiday != 0,
		}
		if r.TotalHours, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("bad total_hours %q: %w", total, err)
		}
		if r.LunchHours, err = decimal.NewFromString(lunch); err != nil {
			return nil, fmt.Errorf("bad lunch_hours %q: %w", lunch, err)
		}
		if r.OvertimeHours, err = decimal.NewFromString(overtime); err != nil {
			return nil, fmt.Errorf("bad overtime_hours %q: %w", overtime, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpsertAbsence writes one absence entry.
func (s *Store) UpsertAbsence(ctx context.Context, a trip.AbsenceRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO absences (employee_id, date, absence_type, hours)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			absence_type = excluded.absence_type,
			hours = excluded.hours`,
		string(a.EmployeeID), a.Date.String(), string(a.Type), a.Hours.String())
	return err
}

func (s *Store) ListAbsences(ctx context.Context, id trip.EmployeeID, month trip.Month) ([]trip.AbsenceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, absence_type, hours
		FROM absences
		WHERE employee_id = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		string(id), month.First().String(), month.Last().String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trip.AbsenceRecord
	for rows.Next() {
		var dateStr, absenceType, hours string
		if err := rows.Scan(&dateStr, &absenceType, &hours); err != nil {
			return nil, err
		}
		date, err := trip.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		h, err := decimal.NewFromString(hours)
		if err != nil {
			return nil, fmt.Errorf("bad hours %q: %w", hours, err)
		}
		out = append(out, trip.AbsenceRecord{
			EmployeeID: id,
			Date:       date,
			Type:       trip.AbsenceType(absenceType),
			Hours:      h,
		})
	}
	return out, rows.Err()
}

// =============================================================================
// SETTINGS
// =============================================================================

const settingsColumns = `saturday_handling, saturday_hourly_rate, meal_allowance_policy,
	meal_voucher_min_hours, allowance_min_hours, allowance_amount,
	trip_rate_with_meal, trip_rate_without_meal,
	conversion_enabled, conversion_rate, conversion_limit`

// SaveCompanySettings writes the company-wide defaults.
func (s *Store) SaveCompanySettings(ctx context.Context, companyID string, r trip.SettingsRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO company_settings (company_id, `+settingsColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id) DO UPDATE SET
			saturday_handling = excluded.saturday_handling,
			saturday_hourly_rate = excluded.saturday_hourly_rate,
			meal_allowance_policy = excluded.meal_allowance_policy,
			meal_voucher_min_hours = excluded.meal_voucher_min_hours,
			allowance_min_hours = excluded.allowance_min_hours,
			allowance_amount = excluded.allowance_amount,
			trip_rate_with_meal = excluded.trip_rate_with_meal,
			trip_rate_without_meal = excluded.trip_rate_without_meal,
			conversion_enabled = excluded.conversion_enabled,
			conversion_rate = excluded.conversion_rate,
			conversion_limit = excluded.conversion_limit`,
		append([]any{companyID}, settingsArgs(r)...)...)
	return err
}

// SaveEmployeeSettings writes one time-versioned override row.
func (s *Store) SaveEmployeeSettings(ctx context.Context, id trip.EmployeeID, r trip.SettingsRecord) error {
	var validTo any
	if r.ValidTo != nil {
		validTo = r.ValidTo.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employee_settings (employee_id, valid_from, valid_to, `+settingsColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, valid_from) DO UPDATE SET
			valid_to = excluded.valid_to,
			saturday_handling = excluded.saturday_handling,
			saturday_hourly_rate = excluded.saturday_hourly_rate,
			meal_allowance_policy = excluded.meal_allowance_policy,
			meal_voucher_min_hours = excluded.meal_voucher_min_hours,
			allowance_min_hours = excluded.allowance_min_hours,
			allowance_amount = excluded.allowance_amount,
			trip_rate_with_meal = excluded.trip_rate_with_meal,
			trip_rate_without_meal = excluded.trip_rate_without_meal,
			conversion_enabled = excluded.conversion_enabled,
			conversion_rate = excluded.conversion_rate,
			conversion_limit = excluded.conversion_limit`,
		append([]any{string(id), r.ValidFrom.String(), validTo}, settingsArgs(r)...)...)
	return err
}

func (s *Store) CompanySettings(ctx context.Context, id trip.EmployeeID) (*trip.SettingsRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+settingsColumns+`
		FROM company_settings cs
		JOIN employees e ON e.company_id = cs.company_id
		WHERE e.id = ?`,
		string(id))

	var cols settingsCols
	if err := row.Scan(cols.dest()...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return cols.build()
}

func (s *Store) EmployeeSettings(ctx context.Context, id trip.EmployeeID) ([]trip.SettingsRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT valid_from, valid_to, `+settingsColumns+`
		FROM employee_settings
		WHERE employee_id = ?
		ORDER BY valid_from`,
		string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trip.SettingsRecord
	for rows.Next() {
		var (
			validFrom string
			validTo   sql.NullString
			cols      settingsCols
		)
		if err := rows.Scan(append([]any{&validFrom, &validTo}, cols.dest()...)...); err != nil {
			return nil, err
		}
		r, err := cols.build()
		if err != nil {
			return nil, err
		}
		if r.ValidFrom, err = trip.ParseDate(validFrom); err != nil {
			return nil, err
		}
		if validTo.Valid {
			d, err := trip.ParseDate(validTo.String)
			if err != nil {
				return nil, err
			}
			r.ValidTo = &d
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func settingsArgs(r trip.SettingsRecord) []any {
	return []any{
		strPtrArg(r.SaturdayHandling),
		decPtrArg(r.SaturdayHourlyRate),
		strPtrArg(r.MealAllowancePolicy),
		decPtrArg(r.MealVoucherMinHours),
		decPtrArg(r.AllowanceMinHours),
		decPtrArg(r.AllowanceAmount),
		decPtrArg(r.TripRateWithMeal),
		decPtrArg(r.TripRateWithoutMeal),
		boolPtrArg(r.ConversionEnabled),
		decPtrArg(r.ConversionRate),
		decPtrArg(r.ConversionLimit),
	}
}

// settingsCols holds the nullable scan targets for one settings row. dest()
// must match the settingsColumns order.
type settingsCols struct {
	saturdayHandling, mealPolicy                            sql.NullString
	saturdayRate, voucherMin, allowanceMin, allowanceAmount sql.NullString
	rateWithMeal, rateWithoutMeal, convRate, convLimit      sql.NullString
	convEnabled                                             sql.NullInt64
}

func (c *settingsCols) dest() []any {
	return []any{
		&c.saturdayHandling, &c.saturdayRate, &c.mealPolicy,
		&c.voucherMin, &c.allowanceMin, &c.allowanceAmount,
		&c.rateWithMeal, &c.rateWithoutMeal,
		&c.convEnabled, &c.convRate, &c.convLimit,
	}
}

func (c *settingsCols) build() (*trip.SettingsRecord, error) {
	r := &trip.SettingsRecord{}
	if c.saturdayHandling.Valid {
		v := trip.SaturdayHandling(c.saturdayHandling.String)
		r.SaturdayHandling = &v
	}
	if c.mealPolicy.Valid {
		v := trip.MealAllowancePolicy(c.mealPolicy.String)
		r.MealAllowancePolicy = &v
	}
	if c.convEnabled.Valid {
		v := c.convEnabled.Int64 != 0
		r.ConversionEnabled = &v
	}
	var err error
	if r.SaturdayHourlyRate, err = nullDecimal(c.saturdayRate); err != nil {
		return nil, err
	}
	if r.MealVoucherMinHours, err = nullDecimal(c.voucherMin); err != nil {
		return nil, err
	}
	if r.AllowanceMinHours, err = nullDecimal(c.allowanceMin); err != nil {
		return nil, err
	}
	if r.AllowanceAmount, err = nullDecimal(c.allowanceAmount); err != nil {
		return nil, err
	}
	if r.TripRateWithMeal, err = nullDecimal(c.rateWithMeal); err != nil {
		return nil, err
	}
	if r.TripRateWithoutMeal, err = nullDecimal(c.rateWithoutMeal); err != nil {
		return nil, err
	}
	if r.ConversionRate, err = nullDecimal(c.convRate); err != nil {
		return nil, err
	}
	if r.ConversionLimit, err = nullDecimal(c.convLimit); err != nil {
		return nil, err
	}
	return r, nil
}

// =============================================================================
// CONVERSION LEDGER
// =============================================================================

func (s *Store) GetOrCreate(ctx context.Context, id trip.EmployeeID, month trip.Month) (trip.ConversionLedger, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversion_ledger (employee_id, month, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(employee_id, month) DO NOTHING`,
		string(id), month.Key(), now, now)
	if err != nil {
		return trip.ConversionLedger{}, err
	}
	return s.loadLedger(ctx, id, month)
}

func (s *Store) SetAutomaticHours(ctx context.Context, id trip.EmployeeID, month trip.Month, hours decimal.Decimal) (trip.ConversionLedger, error) {
	if _, err := s.GetOrCreate(ctx, id, month); err != nil {
		return trip.ConversionLedger{}, err
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE conversion_ledger SET automatic_hours = ?, updated_at = ?
		WHERE employee_id = ? AND month = ?`,
		hours.String(), time.Now().UTC().Format(time.RFC3339), string(id), month.Key())
	if err != nil {
		return trip.ConversionLedger{}, err
	}
	return s.loadLedger(ctx, id, month)
}

// ApplyManualDelta is the atomic read-modify-write on the manual component.
// A busy/locked database surfaces as trip.ErrLedgerConflict so callers can
// detect a retryable conflict with trip.IsRetryable.
func (s *Store) ApplyManualDelta(ctx context.Context, id trip.EmployeeID, month trip.Month, deltaHours decimal.Decimal, note string) (trip.ConversionLedger, error) {
	if _, err := s.GetOrCreate(ctx, id, month); err != nil {
		return trip.ConversionLedger{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return trip.ConversionLedger{}, ledgerWriteErr(err)
	}
	defer tx.Rollback()

	var manualStr, notes string
	err = tx.QueryRowContext(ctx, `
		SELECT manual_hours, notes FROM conversion_ledger
		WHERE employee_id = ? AND month = ?`,
		string(id), month.Key()).Scan(&manualStr, &notes)
	if err != nil {
		return trip.ConversionLedger{}, err
	}
	manual, err := decimal.NewFromString(manualStr)
	if err != nil {
		return trip.ConversionLedger{}, fmt.Errorf("bad manual_hours %q: %w", manualStr, err)
	}

	// Deltas clamp at zero; the ledger never goes negative.
	manual = manual.Add(deltaHours)
	if manual.IsNegative() {
		manual = decimal.Zero
	}
	if note != "" {
		if notes != "" {
			notes += "\n"
		}
		notes += note
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `
		UPDATE conversion_ledger SET manual_hours = ?, notes = ?, updated_at = ?
		WHERE employee_id = ? AND month = ?`,
		manual.String(), notes, now, string(id), month.Key()); err != nil {
		return trip.ConversionLedger{}, ledgerWriteErr(err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_corrections (employee_id, month, delta_hours, note, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		string(id), month.Key(), deltaHours.String(), note, now); err != nil {
		return trip.ConversionLedger{}, ledgerWriteErr(err)
	}
	if err := tx.Commit(); err != nil {
		return trip.ConversionLedger{}, ledgerWriteErr(err)
	}
	return s.loadLedger(ctx, id, month)
}

func (s *Store) loadLedger(ctx context.Context, id trip.EmployeeID, month trip.Month) (trip.ConversionLedger, error) {
	var automatic, manual, notes, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT automatic_hours, manual_hours, notes, created_at, updated_at
		FROM conversion_ledger
		WHERE employee_id = ? AND month = ?`,
		string(id), month.Key()).Scan(&automatic, &manual, &notes, &createdAt, &updatedAt)
	if err != nil {
		return trip.ConversionLedger{}, err
	}

	l := trip.ConversionLedger{EmployeeID: id, Month: month, Notes: notes}
	if l.AutomaticHours, err = decimal.NewFromString(automatic); err != nil {
		return trip.ConversionLedger{}, fmt.Errorf("bad automatic_hours %q: %w", automatic, err)
	}
	if l.ManualHours, err = decimal.NewFromString(manual); err != nil {
		return trip.ConversionLedger{}, fmt.Errorf("bad manual_hours %q: %w", manual, err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		l.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		l.UpdatedAt = t
	}
	return l, nil
}

// Correction is one audit-trail row of the conversion ledger.
type Correction struct {
	DeltaHours decimal.Decimal
	Note       string
	CreatedAt  time.Time
}

// Corrections returns the append-only audit trail for (employee, month).
func (s *Store) Corrections(ctx context.Context, id trip.EmployeeID, month trip.Month) ([]Correction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT delta_hours, note, created_at FROM ledger_corrections
		WHERE employee_id = ? AND month = ?
		ORDER BY id`,
		string(id), month.Key())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Correction
	for rows.Next() {
		var deltaStr, note, createdAt string
		if err := rows.Scan(&deltaStr, &note, &createdAt); err != nil {
			return nil, err
		}
		delta, err := decimal.NewFromString(deltaStr)
		if err != nil {
			return nil, fmt.Errorf("bad delta_hours %q: %w", deltaStr, err)
		}
		c := Correction{DeltaHours: delta, Note: note}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			c.CreatedAt = t
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

// ledgerWriteErr maps SQLite busy/locked failures on the ledger write path
// to trip.ErrLedgerConflict.
func ledgerWriteErr(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && (se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked) {
		return fmt.Errorf("%w: %v", trip.ErrLedgerConflict, err)
	}
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func strPtrArg[T ~string](p *T) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

func decPtrArg(p *decimal.Decimal) any {
	if p == nil {
		return nil
	}
	return p.String()
}

func boolPtrArg(p *bool) any {
	if p == nil {
		return nil
	}
	return boolToInt(*p)
}

func nullDecimal(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, fmt.Errorf("bad decimal %q: %w", ns.String, err)
	}
	return &d, nil
}
