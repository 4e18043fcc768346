package contextengine

import (
	"sync"
	"time"

	"github.com/omnihq/omni-core/internal/automation"
)

// Time-of-day boundaries (hours, local time).
const (
	earlyMorningStart = 5
	morningStart      = 8
	afternoonStart    = 12
	eveningStart      = 17
	nightStart        = 21

	workDayStart = 8
	workDayEnd   = 18
)

// Time-of-day labels exposed in snapshots.
const (
	EarlyMorning = "early_morning"
	Morning      = "morning"
	Afternoon    = "afternoon"
	Evening      = "evening"
	Night        = "night"
)

// Provider derives the assistant's context snapshot: time-of-day
// classification, work/personal mode, and any manually set overrides.
// It implements automation.ContextProvider.
//
// Mode heuristics: work_mode is true on weekdays between 08:00 and
// 18:00 local time; personal_mode is its complement. Set overrides
// both until cleared.
//
// Thread Safety: all methods are safe for concurrent use.
type Provider struct {
	mu sync.RWMutex

	location *time.Location
	now      func() time.Time

	// overrides applied on top of derived values.
	overrides map[string]any
}

// NewProvider creates a provider using loc for local-time heuristics.
// A nil loc falls back to UTC.
func NewProvider(loc *time.Location) *Provider {
	if loc == nil {
		loc = time.UTC
	}
	return &Provider{
		location:  loc,
		now:       time.Now,
		overrides: make(map[string]any),
	}
}

// Set stores a manual override included in every snapshot until
// cleared. Overrides win over derived values, so clients can force
// work_mode during irregular hours.
func (p *Provider) Set(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overrides[key] = value
}

// Clear removes a manual override.
func (p *Provider) Clear(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.overrides, key)
}

// Snapshot returns the current context snapshot.
func (p *Provider) Snapshot() automation.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	now := p.now().In(p.location)
	working := isWorkTime(now)

	snap := automation.Snapshot{
		"current_time":  now.Format(time.RFC3339),
		"time_of_day":   TimeOfDay(now),
		"day_of_week":   now.Weekday().String(),
		"work_mode":     working,
		"personal_mode": !working,
	}

	for k, v := range p.overrides {
		snap[k] = v
	}
	return snap
}

// TimeOfDay classifies a timestamp into the assistant's day segments.
func TimeOfDay(t time.Time) string {
	switch hour := t.Hour(); {
	case hour >= earlyMorningStart && hour < morningStart:
		return EarlyMorning
	case hour >= morningStart && hour < afternoonStart:
		return Morning
	case hour >= afternoonStart && hour < eveningStart:
		return Afternoon
	case hour >= eveningStart && hour < nightStart:
		return Evening
	default:
		return Night
	}
}

// isWorkTime reports whether t falls within default working hours.
func isWorkTime(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
	}
	hour := t.Hour()
	return hour >= workDayStart && hour < workDayEnd
}
