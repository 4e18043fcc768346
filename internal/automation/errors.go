package automation

import "errors"

// Domain errors for the automation package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, automation.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when an automation ID does not exist.
	ErrNotFound = errors.New("automation: not found")

	// ErrDisabled is returned when triggering a disabled automation.
	ErrDisabled = errors.New("automation: disabled")

	// ErrConditionsNotMet is returned when an automation's condition
	// gate evaluates false at trigger time.
	ErrConditionsNotMet = errors.New("automation: conditions not met")

	// ErrInvalidName is returned when a name is empty or too long.
	ErrInvalidName = errors.New("automation: invalid name")

	// ErrInvalidTrigger is returned when a trigger kind is unknown or
	// its condition field is malformed for the kind.
	ErrInvalidTrigger = errors.New("automation: invalid trigger")

	// ErrInvalidSchedule is returned when a time-based trigger carries
	// an unparseable cron expression.
	ErrInvalidSchedule = errors.New("automation: invalid schedule")

	// ErrInvalidAction is returned when an action is invalid or its
	// kind is unknown.
	ErrInvalidAction = errors.New("automation: invalid action")

	// ErrUnknownCondition is returned when a condition name has no
	// registered predicate.
	ErrUnknownCondition = errors.New("automation: unknown condition")

	// ErrNoActions is returned when an automation has no actions.
	ErrNoActions = errors.New("automation: no actions")

	// ErrTemplateNotFound is returned when a template ID does not exist.
	ErrTemplateNotFound = errors.New("automation: template not found")

	// ErrRunNotFound is returned when a run record ID does not exist.
	ErrRunNotFound = errors.New("automation: run not found")
)

// IsValidationError reports whether err is one of the validation
// sentinels raised by Create/CreateFromTemplate. Used by transport
// layers to map failures to a 400 rather than a 500.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidTrigger) ||
		errors.Is(err, ErrInvalidSchedule) ||
		errors.Is(err, ErrInvalidAction) ||
		errors.Is(err, ErrUnknownCondition) ||
		errors.Is(err, ErrNoActions)
}
