/*
scheduler.go - Automated tenure recalculation

PURPOSE:
  Tenure changes every day without any write to the database. The
  scheduler periodically recomputes every employee's tenure as of today and
  records the run, so the tracker can show when figures were last refreshed
  and how many records failed.

DESIGN:
  - Recalculator does one run; the HTTP handler and the scheduler share it
  - Runs a background goroutine with configurable interval
  - Runs once immediately on start
  - Every run is recorded (manual or scheduled) for the UI

CONFIGURATION:
  - Interval: How often to run (default: 1 hour)
  - Enabled:  Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewRecalculationScheduler(recalc)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: Recalculate endpoint (manual run)
  - report/batch.go: Builder.Assess
*/
package api

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/tenure-engine/report"
	"github.com/warp/tenure-engine/roster"
)

const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// =============================================================================
// RECALCULATOR
// =============================================================================

// Recalculator assesses every employee as of today and records the run.
type Recalculator struct {
	Source  roster.Source
	Runs    roster.RunStore
	Builder *report.Builder

	Now   func() time.Time
	NewID func() string
}

func NewRecalculator(source roster.Source, runs roster.RunStore, builder *report.Builder) *Recalculator {
	return &Recalculator{
		Source:  source,
		Runs:    runs,
		Builder: builder,
		Now:     time.Now,
		NewID:   uuid.NewString,
	}
}

// Run recomputes the whole roster. Per-employee failures are counted in the
// run; only a failure to list employees or save the run is an error.
func (rc *Recalculator) Run(ctx context.Context, trigger string) (roster.RecalculationRun, report.Batch, error) {
	started := rc.Now().UTC()

	employees, err := rc.Source.ListEmployees(ctx)
	if err != nil {
		return roster.RecalculationRun{}, report.Batch{}, fmt.Errorf("list employees: %w", err)
	}

	asOf := rc.Builder.Calc.Today()
	batch := rc.Builder.Assess(employees, asOf)

	run := roster.RecalculationRun{
		ID:          rc.NewID(),
		AsOf:        asOf,
		Trigger:     trigger,
		Processed:   batch.Processed,
		Failed:      batch.Failed,
		StartedAt:   started,
		CompletedAt: rc.Now().UTC(),
	}
	if err := rc.Runs.SaveRecalculationRun(ctx, run); err != nil {
		return roster.RecalculationRun{}, report.Batch{}, fmt.Errorf("save run: %w", err)
	}
	return run, batch, nil
}

// =============================================================================
// SCHEDULER
// =============================================================================

// RecalculationScheduler runs the Recalculator on an interval.
type RecalculationScheduler struct {
	Recalc   *Recalculator
	Interval time.Duration
	Enabled  bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewRecalculationScheduler(recalc *Recalculator) *RecalculationScheduler {
	return &RecalculationScheduler{
		Recalc:   recalc,
		Interval: 1 * time.Hour,
		Enabled:  true,
	}
}

// Start begins the scheduler. Calling Start on a running scheduler is a no-op.
func (rs *RecalculationScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.Interval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run(rs.ticker, rs.stop)

	log.Printf("[Scheduler] Started with interval: %v", rs.Interval)
}

// Stop stops the scheduler and waits for an in-flight run to finish.
func (rs *RecalculationScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		log.Println("[Scheduler] Stopped")
	}
}

func (rs *RecalculationScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer rs.wg.Done()

	rs.RunNow()

	for {
		select {
		case <-ticker.C:
			rs.RunNow()
		case <-stop:
			return
		}
	}
}

// RunNow performs one scheduled recalculation synchronously.
func (rs *RecalculationScheduler) RunNow() {
	run, _, err := rs.Recalc.Run(context.Background(), TriggerScheduled)
	if err != nil {
		log.Printf("[Scheduler] Recalculation failed: %v", err)
		return
	}
	if run.Failed > 0 {
		log.Printf("[Scheduler] Recalculated %d employees as of %s, %d failed",
			run.Processed, run.AsOf.Format("2006-01-02"), run.Failed)
		return
	}
	log.Printf("[Scheduler] Recalculated %d employees as of %s", run.Processed, run.AsOf.Format("2006-01-02"))
}
