/*
errors.go - Centralized error and warning types for the engine

PURPOSE:
  All error types in one place. The engine draws a hard line between the two:

  ERRORS abort one employee's computation:
    - ErrNotConfigured: no company settings exist at all
    - ErrInvalidMonth: unparseable reporting month

  WARNINGS ride along on a successfully computed summary:
    - WarnCorrectionPersistFailed: the corrective ledger write failed; the
      corrected in-memory values are still returned, but the audit trail is
      incomplete and the caller should retry persistence
    - WarnFixedExceedsCeiling: the fixed (non-discretionary) amount alone
      exceeds what the worked-day ceiling allows; the engine keeps the fixed
      amount and flags the condition instead of masking it

  Exceeding the working-day ceiling is NOT an error: it is the expected
  business condition the constraint step exists to correct.
*/
package trip

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotConfigured is returned when no company settings exist for the
	// employee's company. Fatal for that employee; never aborts a batch.
	ErrNotConfigured = errors.New("company settings not configured")

	// ErrInvalidMonth is returned for an unparseable reporting month.
	ErrInvalidMonth = errors.New("invalid reporting month")

	// ErrLedgerConflict is returned by stores when a concurrent ledger
	// modification is detected and the write should be retried.
	ErrLedgerConflict = errors.New("concurrent ledger modification detected")
)

// NotConfiguredError wraps ErrNotConfigured with the employee it concerns.
type NotConfiguredError struct {
	EmployeeID EmployeeID
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("no company settings configured for employee %s", e.EmployeeID)
}

func (e *NotConfiguredError) Unwrap() error { return ErrNotConfigured }

// =============================================================================
// WARNINGS - Non-fatal conditions attached to a computed summary
// =============================================================================

type WarningCode string

const (
	// WarnFixedExceedsCeiling: saturday + allowance amount alone exceeds
	// actual_working_days x daily_rate. Conversion is zeroed, the fixed
	// amount is kept, and the condition is surfaced rather than hidden.
	WarnFixedExceedsCeiling WarningCode = "fixed_exceeds_ceiling"

	// WarnCorrectionPersistFailed: the de-conversion delta could not be
	// written to the ledger. The returned summary is already corrected.
	WarnCorrectionPersistFailed WarningCode = "correction_persist_failed"

	// WarnConversionDisabled: overtime conversion is off at the effective
	// level; informational only, conversion contributes zero.
	WarnConversionDisabled WarningCode = "conversion_disabled"
)

type Warning struct {
	Code    WarningCode
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// IsRetryable reports whether the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLedgerConflict)
}
