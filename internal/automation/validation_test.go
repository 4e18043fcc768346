package automation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Morning Routine", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"at limit", strings.Repeat("a", maxNameLength), false},
		{"over limit", strings.Repeat("a", maxNameLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidName) {
				t.Errorf("error should wrap ErrInvalidName, got %v", err)
			}
		})
	}
}

func TestValidateTrigger(t *testing.T) {
	tests := []struct {
		name    string
		trigger Trigger
		wantErr error
	}{
		{"valid time based", Trigger{Kind: TriggerTimeBased, Condition: "0 8 * * *"}, nil},
		{"valid event based", Trigger{Kind: TriggerEventBased, Condition: "task_completed"}, nil},
		{"valid condition based", Trigger{Kind: TriggerConditionBased, Condition: "deadline_approaching"}, nil},
		{"valid manual", Trigger{Kind: TriggerManual, Condition: ""}, nil},
		{"unknown kind", Trigger{Kind: "psychic", Condition: "x"}, ErrInvalidTrigger},
		{"bad cron", Trigger{Kind: TriggerTimeBased, Condition: "every tuesday"}, ErrInvalidSchedule},
		{"event without name", Trigger{Kind: TriggerEventBased, Condition: ""}, ErrInvalidTrigger},
		{"condition without name", Trigger{Kind: TriggerConditionBased, Condition: "  "}, ErrInvalidTrigger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTrigger(tt.trigger)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTrigger() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTrigger() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAction(t *testing.T) {
	bigParams := make(map[string]any)
	for i := 0; i < maxParameterKeys+1; i++ {
		bigParams[strings.Repeat("k", i+1)] = i
	}

	tests := []struct {
		name    string
		action  Action
		wantErr bool
	}{
		{"valid", Action{Kind: ActionSendMessage}, false},
		{"valid with delay", Action{Kind: ActionCreateTask, DelayMS: 1000}, false},
		{"unknown kind", Action{Kind: "summon"}, true},
		{"negative delay", Action{Kind: ActionSendMessage, DelayMS: -1}, true},
		{"excessive delay", Action{Kind: ActionSendMessage, DelayMS: maxDelayMS + 1}, true},
		{"too many params", Action{Kind: ActionSendMessage, Params: bigParams}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAction(tt.action)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAction() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAction) {
				t.Errorf("error should wrap ErrInvalidAction, got %v", err)
			}
		})
	}
}

func TestValidateActionsList(t *testing.T) {
	if err := ValidateActions(nil); !errors.Is(err, ErrNoActions) {
		t.Errorf("empty list error = %v, want ErrNoActions", err)
	}

	tooMany := make([]Action, maxActions+1)
	for i := range tooMany {
		tooMany[i] = Action{Kind: ActionSendMessage}
	}
	if err := ValidateActions(tooMany); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("oversized list error = %v, want ErrInvalidAction", err)
	}

	// Index is reported for the offending action.
	mixed := []Action{{Kind: ActionSendMessage}, {Kind: "summon"}}
	err := ValidateActions(mixed)
	if err == nil || !strings.Contains(err.Error(), "action[1]") {
		t.Errorf("error should name the failing index, got %v", err)
	}
}

func TestAllKindsCovered(t *testing.T) {
	if got := len(AllTriggerKinds()); got != 4 {
		t.Errorf("expected 4 trigger kinds, got %d", got)
	}
	if got := len(AllActionKinds()); got != 9 {
		t.Errorf("expected 9 action kinds, got %d", got)
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("GenerateID() should produce unique values")
	}
	if len(a) != 36 {
		t.Errorf("GenerateID() length = %d, want 36 (UUID)", len(a))
	}
}
