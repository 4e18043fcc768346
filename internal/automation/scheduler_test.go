package automation

import (
	"errors"
	"testing"
	"time"
)

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{"daily at 8", "0 8 * * *", false},
		{"every 15 minutes", "*/15 * * * *", false},
		{"every 2 hours", "0 */2 * * *", false},
		{"hourly at quarter past", "15 * * * *", false},
		{"weekdays at noon", "0 12 * * 1-5", false},
		{"minute out of range", "60 8 * * *", true},
		{"too few fields", "0 8 * *", true},
		{"six fields", "0 0 8 * * *", true},
		{"garbage", "whenever", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchedule(tt.expr)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSchedule) {
					t.Errorf("ParseSchedule(%q) error = %v, want ErrInvalidSchedule", tt.expr, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseSchedule(%q) unexpected error: %v", tt.expr, err)
			}
		})
	}
}

func TestSchedulerRegisterAndDue(t *testing.T) {
	// Monday 2 March 2026, 07:59 UTC.
	base := time.Date(2026, 3, 2, 7, 59, 0, 0, time.UTC)

	s := NewScheduler()
	s.now = func() time.Time { return base }

	if err := s.Register("morning", "0 8 * * *"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	next, ok := s.NextFire("morning")
	if !ok {
		t.Fatal("NextFire() should find the registered schedule")
	}
	wantFirst := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	if !next.Equal(wantFirst) {
		t.Errorf("NextFire() = %v, want %v", next, wantFirst)
	}

	// Not yet due just before 08:00.
	if due := s.Due(base.Add(30 * time.Second)); len(due) != 0 {
		t.Errorf("Due() before fire time returned %v", due)
	}

	// Due exactly at 08:00, and rescheduled for the next day.
	due := s.Due(wantFirst)
	if len(due) != 1 || due[0] != "morning" {
		t.Fatalf("Due() at fire time = %v, want [morning]", due)
	}

	next, _ = s.NextFire("morning")
	wantSecond := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	if !next.Equal(wantSecond) {
		t.Errorf("rescheduled NextFire() = %v, want next day %v", next, wantSecond)
	}

	// Not due again within the same day.
	if due := s.Due(wantFirst.Add(time.Minute)); len(due) != 0 {
		t.Errorf("Due() after reschedule returned %v", due)
	}
}

func TestSchedulerRegisterReplaces(t *testing.T) {
	base := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	s := NewScheduler()
	s.now = func() time.Time { return base }

	if err := s.Register("a", "0 8 * * *"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := s.Register("a", "0 18 * * *"); err != nil {
		t.Fatalf("second Register() error = %v", err)
	}

	if got := s.PendingCount(); got != 1 {
		t.Errorf("PendingCount() = %d, want 1 after re-register", got)
	}

	next, _ := s.NextFire("a")
	want := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("NextFire() = %v, want replacement schedule %v", next, want)
	}
}

func TestSchedulerRegisterInvalid(t *testing.T) {
	s := NewScheduler()
	if err := s.Register("a", "not a schedule"); !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("Register() error = %v, want ErrInvalidSchedule", err)
	}
	if got := s.PendingCount(); got != 0 {
		t.Errorf("invalid expression must not register a schedule, PendingCount() = %d", got)
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	if err := s.Register("a", "0 8 * * *"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	s.Cancel("a")
	if got := s.PendingCount(); got != 0 {
		t.Errorf("PendingCount() = %d after Cancel, want 0", got)
	}
	if _, ok := s.NextFire("a"); ok {
		t.Error("NextFire() should not find a cancelled schedule")
	}

	// Cancelling an absent id is a no-op.
	s.Cancel("a")
	s.Cancel("never-registered")
}

func TestSchedulerDueMultipleSorted(t *testing.T) {
	base := time.Date(2026, 3, 2, 7, 59, 0, 0, time.UTC)
	s := NewScheduler()
	s.now = func() time.Time { return base }

	for _, id := range []string{"charlie", "alpha", "bravo"} {
		if err := s.Register(id, "0 8 * * *"); err != nil {
			t.Fatalf("Register(%s) error = %v", id, err)
		}
	}

	due := s.Due(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	want := []string{"alpha", "bravo", "charlie"}
	if len(due) != len(want) {
		t.Fatalf("Due() = %v, want %v", due, want)
	}
	for i := range want {
		if due[i] != want[i] {
			t.Errorf("Due()[%d] = %s, want %s", i, due[i], want[i])
		}
	}
}
