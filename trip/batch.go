/*
batch.go - Parallel per-employee batch computation

PURPOSE:
  Runs the monthly computation for many employees concurrently. Employees
  share no mutable state, so each runs in its own goroutine. Failures are
  isolated: one employee's ErrNotConfigured lands in that employee's result
  slot and never aborts the rest of the batch.
*/
package trip

import (
	"context"
	"sync"
)

// BatchResult is one employee's outcome within a batch run. Exactly one of
// Summary and Err is set.
type BatchResult struct {
	EmployeeID EmployeeID
	Summary    *MonthlySummary
	Err        error
}

// ComputeAll computes summaries for all employees in parallel. The returned
// slice is ordered like employeeIDs. The only error returned directly is an
// unparseable month; per-employee failures are carried in the results.
func (e *Engine) ComputeAll(ctx context.Context, employeeIDs []EmployeeID, yearMonth string) ([]BatchResult, error) {
	month, err := ParseMonth(yearMonth)
	if err != nil {
		return nil, err
	}

	results := make([]BatchResult, len(employeeIDs))
	var wg sync.WaitGroup
	for i, id := range employeeIDs {
		wg.Add(1)
		go func(i int, id EmployeeID) {
			defer wg.Done()
			summary, err := e.ComputeSummaryForMonth(ctx, id, month)
			results[i] = BatchResult{EmployeeID: id, Summary: summary, Err: err}
		}(i, id)
	}
	wg.Wait()
	return results, nil
}
