package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Runner schedules a daily ingestion cycle at a fixed wall-clock time.
type Runner struct {
	orch   *Orchestrator
	at     string // HH:MM, local time
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a Runner that fires the orchestrator daily at the
// given HH:MM local time.
func NewRunner(orch *Orchestrator, at string, logger *slog.Logger) (*Runner, error) {
	if _, err := time.Parse("15:04", at); err != nil {
		return nil, fmt.Errorf("invalid schedule time %q: %w", at, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{orch: orch, at: at, logger: logger}, nil
}

// Start begins the scheduling loop.
func (r *Runner) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("daily runner started", "at", r.at)
	return nil
}

// Stop gracefully shuts down the runner, waiting for an in-flight cycle.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("daily runner stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main scheduling loop.
func (r *Runner) run() {
	defer r.wg.Done()

	for {
		next := nextRunTime(r.orch.now(), r.at)
		r.logger.Info("next cycle scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-r.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		summary := r.orch.RunCycle(r.ctx)
		r.logger.Info("scheduled cycle finished",
			"run_id", summary.RunID,
			"failures", summary.Failures,
		)
	}
}

// nextRunTime returns the next occurrence of the HH:MM wall-clock time
// strictly after now, in now's location.
func nextRunTime(now time.Time, at string) time.Time {
	t, _ := time.Parse("15:04", at)
	next := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
