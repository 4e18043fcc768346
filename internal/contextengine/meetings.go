package contextengine

import (
	"sort"
	"sync"
	"time"
)

// MeetingSchedule is an in-memory calendar feed backing the
// upcoming_meeting condition. Deployments push meeting start times
// into it from their calendar integration; it implements
// automation.MeetingSource.
type MeetingSchedule struct {
	mu    sync.Mutex
	now   func() time.Time
	times []time.Time
}

// NewMeetingSchedule creates an empty schedule.
func NewMeetingSchedule() *MeetingSchedule {
	return &MeetingSchedule{now: time.Now}
}

// Add records a meeting start time.
func (m *MeetingSchedule) Add(start time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.times = append(m.times, start)
	sort.Slice(m.times, func(i, j int) bool { return m.times[i].Before(m.times[j]) })
}

// HasMeetingWithin reports whether any meeting starts between now and
// now+window. Past meetings are pruned as a side effect.
func (m *MeetingSchedule) HasMeetingWithin(window time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(window)

	// Prune meetings that already started.
	kept := m.times[:0]
	for _, t := range m.times {
		if t.After(now) {
			kept = append(kept, t)
		}
	}
	m.times = kept

	for _, t := range m.times {
		if !t.After(cutoff) {
			return true
		}
	}
	return false
}
