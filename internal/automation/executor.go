package automation

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// Gateway dispatches individual actions to downstream services.
// The production implementation publishes MQTT commands; tests use
// in-memory fakes.
//
// Each method returns an output map merged into the run's placeholder
// scope, so later actions can reference earlier outputs (for example
// {task_id} after create_task).
type Gateway interface {
	SendMessage(ctx context.Context, service string, params map[string]any) (map[string]any, error)
	CreateTask(ctx context.Context, service string, params map[string]any) (map[string]any, error)
	UpdateTask(ctx context.Context, service string, params map[string]any) (map[string]any, error)
	SendEmail(ctx context.Context, service string, params map[string]any) (map[string]any, error)
	CreateCalendarEvent(ctx context.Context, service string, params map[string]any) (map[string]any, error)
	PlayMusic(ctx context.Context, service string, params map[string]any) (map[string]any, error)
	SetReminder(ctx context.Context, params map[string]any) (map[string]any, error)
	LogActivity(ctx context.Context, params map[string]any) (map[string]any, error)
	RunScript(ctx context.Context, params map[string]any) (map[string]any, error)
}

// placeholderRegex matches {token} references in string parameters.
var placeholderRegex = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Executor runs an automation's action list sequentially.
//
// Per-action semantics:
//   - DelayMS is waited out BEFORE the action is invoked
//   - {placeholder} tokens in string params are resolved against the
//     context snapshot and earlier actions' outputs
//   - a failed action is recorded and execution continues with the next
//
// Executor holds no catalog state and takes no locks; long delays never
// block other automations.
type Executor struct {
	gateway Gateway
	logger  Logger
}

// NewExecutor creates an executor dispatching through gateway.
// logger may be nil.
func NewExecutor(gateway Gateway, logger Logger) *Executor {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Executor{gateway: gateway, logger: logger}
}

// Execute runs actions in declared order and returns one ActionResult
// per action, index-aligned with the input. It never returns early: a
// failure in one action does not skip the rest. Cancelling ctx fails
// the remaining actions without executing them.
func (e *Executor) Execute(ctx context.Context, actions []Action, snap Snapshot) []ActionResult {
	results := make([]ActionResult, 0, len(actions))

	// Placeholder scope: snapshot values, overlaid by action outputs.
	scope := make(map[string]any, len(snap))
	for k, v := range snap {
		scope[k] = v
	}

	for i, action := range actions {
		result := ActionResult{
			Index:     i,
			Kind:      action.Kind,
			StartedAt: time.Now().UTC(),
		}

		if err := e.wait(ctx, action.DelayMS); err != nil {
			result.Error = err.Error()
			result.DurationMS = time.Since(result.StartedAt).Milliseconds()
			results = append(results, result)
			e.logger.Warn("action skipped", "index", i, "kind", action.Kind, "error", err)
			continue
		}

		params := resolvePlaceholders(action.Params, scope)
		output, err := e.dispatch(ctx, action, params)
		result.DurationMS = time.Since(result.StartedAt).Milliseconds()

		if err != nil {
			result.Error = err.Error()
			e.logger.Warn("action failed", "index", i, "kind", action.Kind, "error", err)
		} else {
			result.Succeeded = true
			result.Output = output
			for k, v := range output {
				scope[k] = v
			}
		}

		results = append(results, result)
	}

	return results
}

// wait blocks for delayMS milliseconds, returning early if ctx is
// cancelled.
func (e *Executor) wait(ctx context.Context, delayMS int) error {
	if delayMS <= 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("automation: cancelled before action: %w", err)
		}
		return nil
	}

	timer := time.NewTimer(time.Duration(delayMS) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("automation: cancelled during delay: %w", ctx.Err())
	}
}

// dispatch routes an action to the gateway method for its kind.
// Every kind in the closed set is handled explicitly.
func (e *Executor) dispatch(ctx context.Context, action Action, params map[string]any) (map[string]any, error) {
	switch action.Kind {
	case ActionSendMessage:
		return e.gateway.SendMessage(ctx, action.Service, params)
	case ActionCreateTask:
		return e.gateway.CreateTask(ctx, action.Service, params)
	case ActionUpdateTask:
		return e.gateway.UpdateTask(ctx, action.Service, params)
	case ActionSendEmail:
		return e.gateway.SendEmail(ctx, action.Service, params)
	case ActionCreateCalendarEvent:
		return e.gateway.CreateCalendarEvent(ctx, action.Service, params)
	case ActionPlayMusic:
		return e.gateway.PlayMusic(ctx, action.Service, params)
	case ActionSetReminder:
		return e.gateway.SetReminder(ctx, params)
	case ActionLogActivity:
		return e.gateway.LogActivity(ctx, params)
	case ActionCustomScript:
		return e.gateway.RunScript(ctx, params)
	default:
		// Unreachable for validated automations; kept so an unknown
		// kind surfaces as a per-action failure, never a panic.
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidAction, action.Kind)
	}
}

// resolvePlaceholders returns a copy of params with {token} references
// in string values replaced from scope. Unresolved tokens are left
// as-is. Nested maps and slices are resolved recursively.
func resolvePlaceholders(params map[string]any, scope map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = resolveValue(v, scope)
	}
	return out
}

func resolveValue(v any, scope map[string]any) any {
	switch val := v.(type) {
	case string:
		return placeholderRegex.ReplaceAllStringFunc(val, func(match string) string {
			key := match[1 : len(match)-1]
			if resolved, ok := scope[key]; ok {
				return fmt.Sprintf("%v", resolved)
			}
			return match
		})
	case map[string]any:
		return resolvePlaceholders(val, scope)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = resolveValue(item, scope)
		}
		return out
	default:
		return v
	}
}
