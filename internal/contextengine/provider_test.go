package contextengine

import (
	"testing"
	"time"
)

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{5, EarlyMorning},
		{7, EarlyMorning},
		{8, Morning},
		{11, Morning},
		{12, Afternoon},
		{16, Afternoon},
		{17, Evening},
		{20, Evening},
		{21, Night},
		{23, Night},
		{0, Night},
		{4, Night},
	}

	for _, tt := range tests {
		ts := time.Date(2026, 3, 2, tt.hour, 30, 0, 0, time.UTC)
		if got := TimeOfDay(ts); got != tt.want {
			t.Errorf("TimeOfDay(hour=%d) = %s, want %s", tt.hour, got, tt.want)
		}
	}
}

func TestSnapshotModes(t *testing.T) {
	p := NewProvider(time.UTC)

	tests := []struct {
		name     string
		at       time.Time
		workMode bool
	}{
		{"weekday working hours", time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), true}, // Monday
		{"weekday early", time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC), false},
		{"weekday evening", time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC), false},
		{"saturday midday", time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC), false},
		{"sunday midday", time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.now = func() time.Time { return tt.at }
			snap := p.Snapshot()

			if snap.Bool("work_mode") != tt.workMode {
				t.Errorf("work_mode = %v, want %v", snap.Bool("work_mode"), tt.workMode)
			}
			if snap.Bool("personal_mode") == tt.workMode {
				t.Error("personal_mode must be the complement of work_mode")
			}
			if snap.String("current_time") == "" {
				t.Error("snapshot must carry current_time")
			}
			if snap.String("day_of_week") == "" {
				t.Error("snapshot must carry day_of_week")
			}
		})
	}
}

func TestSnapshotOverrides(t *testing.T) {
	p := NewProvider(time.UTC)
	p.now = func() time.Time { return time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC) } // Saturday

	if p.Snapshot().Bool("work_mode") {
		t.Fatal("saturday should not be work mode by default")
	}

	p.Set("work_mode", true)
	if !p.Snapshot().Bool("work_mode") {
		t.Error("override should force work_mode on")
	}

	p.Clear("work_mode")
	if p.Snapshot().Bool("work_mode") {
		t.Error("cleared override should restore the derived value")
	}
}

func TestMeetingSchedule(t *testing.T) {
	m := NewMeetingSchedule()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if m.HasMeetingWithin(15 * time.Minute) {
		t.Error("empty schedule should report no meetings")
	}

	m.Add(now.Add(10 * time.Minute))
	if !m.HasMeetingWithin(15 * time.Minute) {
		t.Error("meeting in 10m should be within a 15m window")
	}
	if m.HasMeetingWithin(5 * time.Minute) {
		t.Error("meeting in 10m should not be within a 5m window")
	}

	// Past meetings are pruned.
	m2 := NewMeetingSchedule()
	m2.now = func() time.Time { return now }
	m2.Add(now.Add(-time.Hour))
	if m2.HasMeetingWithin(24 * time.Hour) {
		t.Error("past meetings should not count as upcoming")
	}
}
