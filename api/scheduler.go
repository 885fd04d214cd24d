/*
scheduler.go - Automated monthly processing

PURPOSE:
  Periodically runs the reconciliation batch for the just-closed month:
  recomputes automatic overtime conversion, standardizes business-trip days,
  and applies any de-conversion corrections for every registered employee.
  Manual recomputation stays available through the batch endpoint; the
  scheduler only keeps the ledgers from drifting between admin visits.

DESIGN:
  - Background goroutine with a configurable check interval
  - Processes the previous calendar month (the current one is still open)
  - Per-employee failures are logged and skipped, never abort the run

SEE ALSO:
  - trip/batch.go: ComputeAll
  - handlers.go: ComputeBatch endpoint (manual trigger)
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/timbrature/trip-engine/trip"
)

// MonthlyScheduler reruns the previous month's reconciliation on a timer.
type MonthlyScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewMonthlyScheduler(h *Handler) *MonthlyScheduler {
	return &MonthlyScheduler{
		Handler:       h,
		CheckInterval: 6 * time.Hour,
		Enabled:       true,
		stop:          make(chan struct{}),
	}
}

// Start begins the scheduler.
func (ms *MonthlyScheduler) Start() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if !ms.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ms.ticker = time.NewTicker(ms.CheckInterval)
	ms.wg.Add(1)
	go ms.run()

	log.Printf("[Scheduler] Started with check interval: %v", ms.CheckInterval)
}

// Stop stops the scheduler and waits for an in-flight run to finish.
func (ms *MonthlyScheduler) Stop() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.ticker != nil {
		ms.ticker.Stop()
		close(ms.stop)
		ms.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (ms *MonthlyScheduler) run() {
	defer ms.wg.Done()

	// Run immediately on start.
	ms.processPreviousMonth()

	for {
		select {
		case <-ms.ticker.C:
			ms.processPreviousMonth()
		case <-ms.stop:
			return
		}
	}
}

func (ms *MonthlyScheduler) processPreviousMonth() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now().UTC()
	prev := trip.NewMonth(now.Year(), now.Month()).First().AddDays(-1)
	month := trip.NewMonth(prev.Year(), prev.MonthOf())

	ids, err := ms.Handler.Store.ListEmployees(ctx)
	if err != nil {
		log.Printf("[Scheduler] Failed to list employees: %v", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	results, err := ms.Handler.Engine.ComputeAll(ctx, ids, month.String())
	if err != nil {
		log.Printf("[Scheduler] Batch for %s failed: %v", month, err)
		return
	}

	var failed, warned int
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
			log.Printf("[Scheduler] %s/%s: %v", res.EmployeeID, month, res.Err)
		case len(res.Summary.Warnings) > 0:
			warned++
			for _, w := range res.Summary.Warnings {
				if w.Code != trip.WarnConversionDisabled {
					log.Printf("[Scheduler] %s/%s: %s", res.EmployeeID, month, w)
				}
			}
		}
	}
	log.Printf("[Scheduler] Processed %s: %d employees, %d failed, %d with warnings",
		month, len(results), failed, warned)
}
