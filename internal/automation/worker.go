package automation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Worker default intervals.
const (
	defaultTickInterval = 1 * time.Second
	defaultErrorBackoff = 5 * time.Second
)

// ContextProvider supplies the context snapshot for scheduled and
// event-driven runs (mode flags, time-of-day, etc.).
type ContextProvider interface {
	Snapshot() Snapshot
}

// WorkerConfig tunes the worker loop.
type WorkerConfig struct {
	// TickInterval is how often the scheduler is polled (default 1s).
	TickInterval time.Duration

	// ErrorBackoff replaces the tick interval for one cycle after an
	// internal error (default 5s).
	ErrorBackoff time.Duration
}

// Worker drives time-based automations: each tick it polls the
// scheduler for due IDs and dispatches every firing in its own
// goroutine, so a slow run or a long action delay never stalls the
// loop or delays other automations.
//
// Expected outcomes (disabled automation, conditions not met) are
// logged and swallowed. Internal errors are contained: the loop backs
// off for one cycle and keeps running.
type Worker struct {
	catalog  *Catalog
	schedule *Scheduler
	contexts ContextProvider

	tick    time.Duration
	backoff time.Duration

	logger Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWorker creates a worker polling schedule and dispatching through
// catalog. contexts may be nil (runs get an empty snapshot).
func NewWorker(catalog *Catalog, schedule *Scheduler, contexts ContextProvider, cfg WorkerConfig) *Worker {
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = defaultTickInterval
	}
	backoff := cfg.ErrorBackoff
	if backoff <= 0 {
		backoff = defaultErrorBackoff
	}
	return &Worker{
		catalog:  catalog,
		schedule: schedule,
		contexts: contexts,
		tick:     tick,
		backoff:  backoff,
		logger:   noopLogger{},
	}
}

// SetLogger configures logging output. Pass nil to disable.
func (w *Worker) SetLogger(logger Logger) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if logger == nil {
		w.logger = noopLogger{}
		return
	}
	w.logger = logger
}

// Start launches the worker loop. Calling Start on a running worker is
// a no-op. The loop stops when ctx is cancelled or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	w.running = true
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.loop(loopCtx)
	w.logger.Info("automation worker started", "tick", w.tick.String())
}

// Stop halts the worker loop and waits for it to exit. In-flight runs
// are cancelled through their context.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	cancel()
	<-done
	w.logger.Info("automation worker stopped")
}

// loop is the tick cycle. A failed tick swaps in the backoff interval
// for exactly one cycle.
func (w *Worker) loop(ctx context.Context) {
	defer close(w.done)

	timer := time.NewTimer(w.tick)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-timer.C:
			interval := w.tick
			if err := w.runTick(ctx, now); err != nil {
				w.logger.Error("worker tick failed", "error", err)
				interval = w.backoff
			}
			timer.Reset(interval)
		}
	}
}

// runTick polls for due automations and dispatches each in its own
// goroutine. Panics are converted to errors so the loop survives.
func (w *Worker) runTick(ctx context.Context, now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("automation: worker tick panic: %v", r)
		}
	}()

	for _, id := range w.schedule.Due(now) {
		go w.runScheduled(ctx, id)
	}
	return nil
}

// runScheduled executes one scheduled firing.
func (w *Worker) runScheduled(ctx context.Context, id string) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("scheduled run panicked", "automation_id", id, "panic", r)
		}
	}()

	snap := Snapshot{}
	if w.contexts != nil {
		snap = w.contexts.Snapshot()
	}

	run, err := w.catalog.Trigger(ctx, id, snap)
	switch {
	case err == nil:
		w.logger.Debug("scheduled run finished",
			"automation_id", id, "run_id", run.RunID, "succeeded", run.Succeeded)
	case errors.Is(err, ErrDisabled), errors.Is(err, ErrConditionsNotMet), errors.Is(err, ErrNotFound):
		// Expected outcomes: the automation changed state between the
		// schedule firing and the run starting.
		w.logger.Debug("scheduled run skipped", "automation_id", id, "reason", err)
	default:
		w.logger.Error("scheduled run failed", "automation_id", id, "error", err)
	}
}
