package automation

import (
	"sync"
	"time"
)

// Built-in condition names.
const (
	ConditionWorkMode            = "work_mode"
	ConditionPersonalMode        = "personal_mode"
	ConditionUpcomingMeeting     = "upcoming_meeting"
	ConditionDeadlineApproaching = "deadline_approaching"
)

// defaultMeetingWindow is how far ahead upcoming_meeting looks.
const defaultMeetingWindow = 15 * time.Minute

// defaultDeadlineHours is the deadline_approaching window when the
// trigger carries no hours_ahead parameter.
const defaultDeadlineHours = 24

// Predicate evaluates one named condition against a context snapshot.
// Params carry trigger-level tuning (e.g. hours_ahead).
type Predicate func(snap Snapshot, params map[string]any) bool

// MeetingSource answers whether a meeting starts within a window.
// Backed by a calendar integration in deployment; tests use fakes.
type MeetingSource interface {
	HasMeetingWithin(window time.Duration) bool
}

// Evaluator holds the registry of condition predicates and applies an
// automation's condition gate.
//
// Semantics: an empty condition list passes; multiple conditions are
// ANDed; a name with no registered predicate fails closed.
//
// Thread Safety: Register and Evaluate are safe for concurrent use.
type Evaluator struct {
	mu         sync.RWMutex
	predicates map[string]Predicate
	logger     Logger
}

// NewEvaluator creates an evaluator with the built-in predicates
// registered. meetings may be nil, in which case upcoming_meeting is
// always false.
func NewEvaluator(meetings MeetingSource) *Evaluator {
	e := &Evaluator{
		predicates: make(map[string]Predicate),
		logger:     noopLogger{},
	}

	e.Register(ConditionWorkMode, func(snap Snapshot, _ map[string]any) bool {
		return snap.Bool(ConditionWorkMode)
	})
	e.Register(ConditionPersonalMode, func(snap Snapshot, _ map[string]any) bool {
		return snap.Bool(ConditionPersonalMode)
	})
	e.Register(ConditionUpcomingMeeting, func(_ Snapshot, _ map[string]any) bool {
		if meetings == nil {
			return false
		}
		return meetings.HasMeetingWithin(defaultMeetingWindow)
	})
	e.Register(ConditionDeadlineApproaching, deadlineApproaching)

	return e
}

// SetLogger configures logging output. Pass nil to disable.
func (e *Evaluator) SetLogger(logger Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if logger == nil {
		e.logger = noopLogger{}
		return
	}
	e.logger = logger
}

// Register adds or replaces a named predicate.
func (e *Evaluator) Register(name string, p Predicate) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.predicates[name] = p
}

// Known reports whether a predicate is registered under name.
// Used at creation time to reject unknown condition names.
func (e *Evaluator) Known(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.predicates[name]
	return ok
}

// Evaluate applies the condition gate. Every named condition must hold
// for the gate to pass; an unregistered name fails the gate.
func (e *Evaluator) Evaluate(names []string, snap Snapshot, params map[string]any) bool {
	for _, name := range names {
		e.mu.RLock()
		p, ok := e.predicates[name]
		logger := e.logger
		e.mu.RUnlock()

		if !ok {
			logger.Warn("condition has no registered predicate", "condition", name)
			return false
		}
		if !p(snap, params) {
			return false
		}
	}
	return true
}

// deadlineApproaching is true when the snapshot's deadline_at falls
// within hours_ahead hours of the snapshot's current time (or the wall
// clock when the snapshot carries no current_time).
func deadlineApproaching(snap Snapshot, params map[string]any) bool {
	deadline, ok := snapshotTime(snap["deadline_at"])
	if !ok {
		return false
	}

	now := time.Now()
	if t, ok := snapshotTime(snap["current_time"]); ok {
		now = t
	}

	hours := defaultDeadlineHours
	if h, ok := intParam(params, "hours_ahead"); ok && h > 0 {
		hours = h
	}

	window := time.Duration(hours) * time.Hour
	return !deadline.Before(now) && deadline.Sub(now) <= window
}

// snapshotTime coerces a snapshot value into a time.Time. Accepts
// time.Time directly or an RFC 3339 string.
func snapshotTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

// intParam reads an integer parameter, tolerating the float64 values
// produced by JSON decoding.
func intParam(params map[string]any, key string) (int, bool) {
	switch val := params[key].(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	default:
		return 0, false
	}
}
