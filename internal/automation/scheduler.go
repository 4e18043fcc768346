package automation

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts the 5-field cron syntax:
// minute hour day-of-month month day-of-week.
var scheduleParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// ParseSchedule parses a 5-field cron expression. Returns
// ErrInvalidSchedule (wrapped with the parser's detail) on failure.
func ParseSchedule(expr string) (cron.Schedule, error) {
	schedule, err := scheduleParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, expr, err)
	}
	return schedule, nil
}

// pendingFire is a registered automation's next scheduled occurrence.
type pendingFire struct {
	expr     string
	schedule cron.Schedule
	next     time.Time
}

// Scheduler tracks the next fire time for every enabled time-based
// automation. At most one pending entry exists per automation ID;
// re-registering replaces the previous entry.
//
// The scheduler does not execute anything itself. The worker polls
// Due() each tick and dispatches the returned IDs.
//
// Thread Safety: all methods are safe for concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	pending map[string]*pendingFire

	// now is swapped in tests to control scheduling time.
	now func() time.Time

	logger Logger
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		pending: make(map[string]*pendingFire),
		now:     time.Now,
		logger:  noopLogger{},
	}
}

// SetLogger configures logging output. Pass nil to disable.
func (s *Scheduler) SetLogger(logger Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if logger == nil {
		s.logger = noopLogger{}
		return
	}
	s.logger = logger
}

// Register stores a pending fire for id computed from expr, replacing
// any existing entry for the same id.
func (s *Scheduler) Register(id, expr string) error {
	schedule, err := ParseSchedule(expr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := schedule.Next(s.now())
	s.pending[id] = &pendingFire{
		expr:     expr,
		schedule: schedule,
		next:     next,
	}
	s.logger.Debug("schedule registered", "automation_id", id, "expr", expr, "next_fire", next)
	return nil
}

// Cancel removes the pending fire for id. No-op if absent.
func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[id]; ok {
		delete(s.pending, id)
		s.logger.Debug("schedule cancelled", "automation_id", id)
	}
}

// Due returns the IDs whose next fire time is at or before now, and
// reschedules each for its next future occurrence before returning.
// The returned slice is sorted for deterministic dispatch order.
func (s *Scheduler) Due(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []string
	for id, p := range s.pending {
		if p.next.After(now) {
			continue
		}
		due = append(due, id)
		p.next = p.schedule.Next(now)
	}

	sort.Strings(due)
	return due
}

// NextFire returns the pending fire time for id, or false when id has
// no registered schedule.
func (s *Scheduler) NextFire(id string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	if !ok {
		return time.Time{}, false
	}
	return p.next, true
}

// PendingCount returns the number of registered schedules.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
