package automation

import "time"

// TriggerKind classifies what causes an automation to fire.
type TriggerKind string

// Trigger kinds. The set is closed: validation rejects anything else.
const (
	// TriggerTimeBased fires on a cron schedule (5-field syntax).
	TriggerTimeBased TriggerKind = "time_based"

	// TriggerEventBased fires when a named external event arrives.
	TriggerEventBased TriggerKind = "event_based"

	// TriggerConditionBased fires when a named condition predicate is
	// observed true. Evaluation is on-demand: the predicate is checked
	// when the automation is triggered, not continuously polled.
	TriggerConditionBased TriggerKind = "condition_based"

	// TriggerManual fires only on an explicit trigger request.
	TriggerManual TriggerKind = "manual"
)

// ActionKind classifies what an action does when invoked.
type ActionKind string

// Action kinds. The set is closed: validation rejects anything else.
const (
	ActionSendMessage         ActionKind = "send_message"
	ActionCreateTask          ActionKind = "create_task"
	ActionUpdateTask          ActionKind = "update_task"
	ActionSendEmail           ActionKind = "send_email"
	ActionCreateCalendarEvent ActionKind = "create_calendar_event"
	ActionPlayMusic           ActionKind = "play_music"
	ActionSetReminder         ActionKind = "set_reminder"
	ActionLogActivity         ActionKind = "log_activity"
	ActionCustomScript        ActionKind = "custom_script"
)

// Trigger describes when an automation fires.
//
// The meaning of Condition depends on Kind:
//   - time_based: a 5-field cron expression ("0 8 * * *")
//   - event_based: the event name to match ("task_completed")
//   - condition_based: the predicate name to check ("deadline_approaching")
//   - manual: a free-form label for the trigger ("start_focus")
type Trigger struct {
	Kind      TriggerKind    `json:"kind"`
	Condition string         `json:"condition"`
	Params    map[string]any `json:"params,omitempty"`
}

// Action is a single step within an automation's ordered action list.
type Action struct {
	// Kind selects the operation to perform.
	Kind ActionKind `json:"kind"`

	// Params are the operation inputs. String values may contain
	// {placeholder} tokens resolved against the context snapshot and
	// the outputs of earlier actions in the same run.
	Params map[string]any `json:"params,omitempty"`

	// Service names the downstream service handling the action
	// (e.g. "slack", "todoist"). Empty means the default for the kind.
	Service string `json:"service,omitempty"`

	// DelayMS is a pause applied before this action is invoked.
	DelayMS int `json:"delay_ms"`
}

// Automation is a user-defined rule: a trigger, a gate of condition
// names, and an ordered list of actions.
type Automation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Trigger     Trigger   `json:"trigger"`
	Actions     []Action  `json:"actions"`
	Conditions  []string  `json:"conditions,omitempty"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`

	// Run statistics, updated atomically after every run.
	LastRun     *time.Time `json:"last_run,omitempty"`
	RunCount    int        `json:"run_count"`
	SuccessRate float64    `json:"success_rate"`
}

// Template is a prebuilt automation definition that can be instantiated
// with optional field overrides.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Trigger     Trigger  `json:"trigger"`
	Actions     []Action `json:"actions"`
	Conditions  []string `json:"conditions,omitempty"`
}

// TemplateOverrides selects template fields to replace at instantiation.
// Nil (or empty, for slices) fields inherit the template value.
type TemplateOverrides struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Trigger     *Trigger `json:"trigger,omitempty"`
	Actions     []Action `json:"actions,omitempty"`
	Conditions  []string `json:"conditions,omitempty"`
}

// Snapshot is a point-in-time view of assistant context (mode flags,
// time-of-day, event payload fields) used for condition evaluation and
// placeholder resolution.
type Snapshot map[string]any

// Bool returns the boolean value stored under key, or false when the
// key is absent or not a bool.
func (s Snapshot) Bool(key string) bool {
	v, _ := s[key].(bool)
	return v
}

// String returns the string value stored under key, or "" when the key
// is absent or not a string.
func (s Snapshot) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// ActionResult records the outcome of one action within a run.
type ActionResult struct {
	Index      int            `json:"index"`
	Kind       ActionKind     `json:"kind"`
	Succeeded  bool           `json:"succeeded"`
	Output     map[string]any `json:"output,omitempty"`
	Error      string         `json:"error,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	DurationMS int64          `json:"duration_ms"`
}

// RunResult is the outcome of a single automation run.
//
// Succeeded is true only when every action succeeded; a run with a
// failed action still attempts all remaining actions but counts as a
// failure in the success-rate statistic.
type RunResult struct {
	RunID          string         `json:"run_id"`
	AutomationID   string         `json:"automation_id"`
	AutomationName string         `json:"automation_name"`
	ExecutedAt     time.Time      `json:"executed_at"`
	Succeeded      bool           `json:"succeeded"`
	Results        []ActionResult `json:"results"`
	DurationMS     int64          `json:"duration_ms"`
}

// DeepCopy returns an independent copy of the automation, including its
// actions and nested parameter maps. Mutating the copy never affects
// catalog state.
func (a *Automation) DeepCopy() *Automation {
	if a == nil {
		return nil
	}

	clone := *a

	if a.LastRun != nil {
		t := *a.LastRun
		clone.LastRun = &t
	}

	clone.Trigger.Params = deepCopyMap(a.Trigger.Params)
	clone.Actions = deepCopyActions(a.Actions)

	if a.Conditions != nil {
		clone.Conditions = make([]string, len(a.Conditions))
		copy(clone.Conditions, a.Conditions)
	}

	return &clone
}

// deepCopyActions copies an action list including nested parameter maps.
func deepCopyActions(actions []Action) []Action {
	if actions == nil {
		return nil
	}
	out := make([]Action, len(actions))
	for i, action := range actions {
		out[i] = action
		out[i].Params = deepCopyMap(action.Params)
	}
	return out
}

// deepCopyMap recursively copies a parameter map. Nested maps and
// slices are copied; scalar values are shared.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
