package automation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Validation constants.
const (
	maxNameLength     = 100
	maxDescriptionLen = 500
	maxActions        = 50
	maxParameterKeys  = 20
	maxDelayMS        = 300000 // 5 minutes
)

// Pre-computed validation sets for O(1) kind lookups.
var (
	validTriggerKinds map[TriggerKind]struct{}
	validActionKinds  map[ActionKind]struct{}
)

func init() {
	validTriggerKinds = make(map[TriggerKind]struct{}, len(AllTriggerKinds()))
	for _, k := range AllTriggerKinds() {
		validTriggerKinds[k] = struct{}{}
	}
	validActionKinds = make(map[ActionKind]struct{}, len(AllActionKinds()))
	for _, k := range AllActionKinds() {
		validActionKinds[k] = struct{}{}
	}
}

// AllTriggerKinds returns every valid trigger kind.
func AllTriggerKinds() []TriggerKind {
	return []TriggerKind{
		TriggerTimeBased,
		TriggerEventBased,
		TriggerConditionBased,
		TriggerManual,
	}
}

// AllActionKinds returns every valid action kind.
func AllActionKinds() []ActionKind {
	return []ActionKind{
		ActionSendMessage,
		ActionCreateTask,
		ActionUpdateTask,
		ActionSendEmail,
		ActionCreateCalendarEvent,
		ActionPlayMusic,
		ActionSetReminder,
		ActionLogActivity,
		ActionCustomScript,
	}
}

// ValidateName checks if an automation name is valid.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateTrigger checks a trigger's kind and its condition field.
// Time-based triggers must carry a parseable 5-field cron expression;
// event- and condition-based triggers must name their event/predicate.
func ValidateTrigger(t Trigger) error {
	if _, ok := validTriggerKinds[t.Kind]; !ok {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTrigger, t.Kind)
	}

	switch t.Kind {
	case TriggerTimeBased:
		if _, err := ParseSchedule(t.Condition); err != nil {
			return err
		}
	case TriggerEventBased:
		if strings.TrimSpace(t.Condition) == "" {
			return fmt.Errorf("%w: event name is required", ErrInvalidTrigger)
		}
	case TriggerConditionBased:
		if strings.TrimSpace(t.Condition) == "" {
			return fmt.Errorf("%w: condition name is required", ErrInvalidTrigger)
		}
	case TriggerManual:
		// Condition is a free-form label; anything goes.
	}

	if len(t.Params) > maxParameterKeys {
		return fmt.Errorf("%w: params exceeds %d keys", ErrInvalidTrigger, maxParameterKeys)
	}
	return nil
}

// ValidateAction checks an action's kind, delay, and parameter count.
func ValidateAction(action Action) error {
	if _, ok := validActionKinds[action.Kind]; !ok {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidAction, action.Kind)
	}
	if action.DelayMS < 0 || action.DelayMS > maxDelayMS {
		return fmt.Errorf("%w: delay_ms must be 0-%d", ErrInvalidAction, maxDelayMS)
	}
	if len(action.Params) > maxParameterKeys {
		return fmt.Errorf("%w: params exceeds %d keys", ErrInvalidAction, maxParameterKeys)
	}
	return nil
}

// ValidateActions checks the action list as a whole.
func ValidateActions(actions []Action) error {
	if len(actions) == 0 {
		return ErrNoActions
	}
	if len(actions) > maxActions {
		return fmt.Errorf("%w: exceeds maximum of %d actions", ErrInvalidAction, maxActions)
	}
	for i, action := range actions {
		if err := ValidateAction(action); err != nil {
			return fmt.Errorf("action[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidateDescription checks the optional description length.
func ValidateDescription(description string) error {
	if len(description) > maxDescriptionLen {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidName, maxDescriptionLen)
	}
	return nil
}

// GenerateID creates a new UUID for an automation or run record.
func GenerateID() string {
	return uuid.New().String()
}
