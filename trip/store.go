/*
store.go - Persistence interfaces the engine consumes

PURPOSE:
  The engine is a library: it reads time entries, absences, and settings
  through these interfaces and writes only through LedgerStore. Different
  implementations back them with SQLite or in-memory maps.

THE ONE WRITE THAT MATTERS:
  ApplyManualDelta is the engine's single mutating operation, used for both
  admin adjustments and automatic de-conversion corrections. It MUST be an
  atomic read-modify-write keyed by (employee, month): automatic monthly
  processing and manual admin edits can race, so implementations read the
  current manual hours, add the delta, clamp at zero, and write within one
  transaction. A blind overwrite is a bug.

IMPLEMENTATIONS:
  - store/sqlite: production store
  - trip/store:   in-memory store for tests and dev mode

SEE ALSO:
  - conversion.go: ledger semantics
  - engine.go: how the interfaces are consumed
*/
package trip

import (
	"context"

	"github.com/shopspring/decimal"
)

// WorkDayStore lists worked-time entries. Read-only to the engine.
type WorkDayStore interface {
	// ListWorkDays returns all records for the employee within the month,
	// at most one per calendar day.
	ListWorkDays(ctx context.Context, employeeID EmployeeID, month Month) ([]WorkDayRecord, error)
}

// AbsenceStore lists absence entries. Read-only to the engine.
type AbsenceStore interface {
	ListAbsences(ctx context.Context, employeeID EmployeeID, month Month) ([]AbsenceRecord, error)
}

// SettingsStore provides the raw layered settings rows the resolver merges.
type SettingsStore interface {
	// CompanySettings returns the company-wide defaults for the employee's
	// company, or nil when the company has no settings at all (which the
	// resolver turns into ErrNotConfigured).
	CompanySettings(ctx context.Context, employeeID EmployeeID) (*SettingsRecord, error)

	// EmployeeSettings returns the employee-specific time-versioned override
	// rows, in any order. Each row covers [ValidFrom, ValidTo).
	EmployeeSettings(ctx context.Context, employeeID EmployeeID) ([]SettingsRecord, error)
}

// LedgerStore persists the overtime-conversion ledger.
type LedgerStore interface {
	// GetOrCreate returns the ledger row for (employee, month), creating an
	// empty one on first access. Rows are never deleted.
	GetOrCreate(ctx context.Context, employeeID EmployeeID, month Month) (ConversionLedger, error)

	// SetAutomaticHours overwrites the automatic component. Idempotent; used
	// by monthly processing and by the engine's recompute.
	SetAutomaticHours(ctx context.Context, employeeID EmployeeID, month Month, hours decimal.Decimal) (ConversionLedger, error)

	// ApplyManualDelta atomically adds deltaHours to the manual component,
	// clamping the result at zero, and appends note to the row's notes.
	// Returns the post-application row.
	ApplyManualDelta(ctx context.Context, employeeID EmployeeID, month Month, deltaHours decimal.Decimal, note string) (ConversionLedger, error)
}
