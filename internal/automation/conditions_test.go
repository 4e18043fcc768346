package automation

import (
	"testing"
	"time"
)

// fakeMeetings is a canned MeetingSource.
type fakeMeetings struct {
	upcoming bool
}

func (f *fakeMeetings) HasMeetingWithin(time.Duration) bool {
	return f.upcoming
}

func TestEvaluateEmptyListPasses(t *testing.T) {
	e := NewEvaluator(nil)
	if !e.Evaluate(nil, Snapshot{}, nil) {
		t.Error("empty condition list should pass")
	}
	if !e.Evaluate([]string{}, nil, nil) {
		t.Error("empty condition list with nil snapshot should pass")
	}
}

func TestEvaluateModeConditions(t *testing.T) {
	e := NewEvaluator(nil)

	tests := []struct {
		name       string
		conditions []string
		snap       Snapshot
		want       bool
	}{
		{"work mode on", []string{ConditionWorkMode}, Snapshot{"work_mode": true}, true},
		{"work mode off", []string{ConditionWorkMode}, Snapshot{"work_mode": false}, false},
		{"work mode absent", []string{ConditionWorkMode}, Snapshot{}, false},
		{"personal mode on", []string{ConditionPersonalMode}, Snapshot{"personal_mode": true}, true},
		{"and semantics both true", []string{ConditionWorkMode, ConditionPersonalMode},
			Snapshot{"work_mode": true, "personal_mode": true}, true},
		{"and semantics one false", []string{ConditionWorkMode, ConditionPersonalMode},
			Snapshot{"work_mode": true, "personal_mode": false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Evaluate(tt.conditions, tt.snap, nil); got != tt.want {
				t.Errorf("Evaluate(%v) = %v, want %v", tt.conditions, got, tt.want)
			}
		})
	}
}

func TestEvaluateUnknownConditionFailsClosed(t *testing.T) {
	e := NewEvaluator(nil)
	if e.Evaluate([]string{"full_moon"}, Snapshot{"full_moon": true}, nil) {
		t.Error("unregistered condition name must fail the gate")
	}
}

func TestEvaluatorKnown(t *testing.T) {
	e := NewEvaluator(nil)

	for _, name := range []string{
		ConditionWorkMode, ConditionPersonalMode,
		ConditionUpcomingMeeting, ConditionDeadlineApproaching,
	} {
		if !e.Known(name) {
			t.Errorf("built-in condition %q should be known", name)
		}
	}
	if e.Known("full_moon") {
		t.Error("unregistered name should not be known")
	}
}

func TestEvaluatorRegisterCustomPredicate(t *testing.T) {
	e := NewEvaluator(nil)
	e.Register("quiet_hours", func(snap Snapshot, _ map[string]any) bool {
		return snap.String("time_of_day") == "night"
	})

	if !e.Known("quiet_hours") {
		t.Fatal("registered predicate should be known")
	}
	if !e.Evaluate([]string{"quiet_hours"}, Snapshot{"time_of_day": "night"}, nil) {
		t.Error("custom predicate should pass when satisfied")
	}
	if e.Evaluate([]string{"quiet_hours"}, Snapshot{"time_of_day": "morning"}, nil) {
		t.Error("custom predicate should fail when not satisfied")
	}
}

func TestUpcomingMeeting(t *testing.T) {
	meetings := &fakeMeetings{upcoming: true}
	e := NewEvaluator(meetings)

	if !e.Evaluate([]string{ConditionUpcomingMeeting}, Snapshot{}, nil) {
		t.Error("upcoming_meeting should pass when the source reports a meeting")
	}

	meetings.upcoming = false
	if e.Evaluate([]string{ConditionUpcomingMeeting}, Snapshot{}, nil) {
		t.Error("upcoming_meeting should fail when no meeting is near")
	}

	// Nil source: always false rather than an error.
	noSource := NewEvaluator(nil)
	if noSource.Evaluate([]string{ConditionUpcomingMeeting}, Snapshot{}, nil) {
		t.Error("upcoming_meeting without a source should fail closed")
	}
}

func TestDeadlineApproaching(t *testing.T) {
	e := NewEvaluator(nil)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline any
		params   map[string]any
		want     bool
	}{
		{"within default 24h", now.Add(6 * time.Hour), nil, true},
		{"beyond default 24h", now.Add(48 * time.Hour), nil, false},
		{"already passed", now.Add(-time.Hour), nil, false},
		{"narrow window excludes", now.Add(6 * time.Hour), map[string]any{"hours_ahead": 2}, false},
		{"narrow window includes", now.Add(time.Hour), map[string]any{"hours_ahead": 2}, true},
		{"json-decoded hours_ahead", now.Add(time.Hour), map[string]any{"hours_ahead": float64(2)}, true},
		{"rfc3339 string deadline", now.Add(2 * time.Hour).Format(time.RFC3339), nil, true},
		{"unparseable deadline", "someday", nil, false},
		{"missing deadline", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{"current_time": now}
			if tt.deadline != nil {
				snap["deadline_at"] = tt.deadline
			}
			got := e.Evaluate([]string{ConditionDeadlineApproaching}, snap, tt.params)
			if got != tt.want {
				t.Errorf("deadline_approaching = %v, want %v", got, tt.want)
			}
		})
	}
}
