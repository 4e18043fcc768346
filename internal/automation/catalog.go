package automation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Broadcaster pushes run events to connected clients (WebSocket hub).
type Broadcaster interface {
	Broadcast(channel string, payload any)
}

// MetricsRecorder receives per-run telemetry (InfluxDB writer).
type MetricsRecorder interface {
	RecordRun(automationID, automationName string, succeeded bool, duration time.Duration)
}

// Catalog is the authoritative store of automation definitions and the
// entry point for every lifecycle and trigger operation.
//
// Locking: a single mutex serializes all catalog mutation — create,
// enable/disable, delete, and the stats update after a run. Action
// execution happens strictly outside the lock on a deep copy, so a run
// with long delays never blocks other operations.
//
// The catalog is in-memory. Run outcomes are persisted as an audit
// trail through the optional Repository.
type Catalog struct {
	mu          sync.Mutex
	automations map[string]*Automation

	templates map[string]Template

	scheduler  *Scheduler
	executor   *Executor
	conditions *Evaluator

	// Optional collaborators; nil disables the concern.
	repo    Repository
	hub     Broadcaster
	metrics MetricsRecorder

	logger Logger
}

// NewCatalog creates a catalog with the built-in templates loaded.
// repo, hub, metrics, and logger may each be nil.
func NewCatalog(scheduler *Scheduler, executor *Executor, conditions *Evaluator, repo Repository, hub Broadcaster, metrics MetricsRecorder, logger Logger) *Catalog {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Catalog{
		automations: make(map[string]*Automation),
		templates:   builtinTemplates(),
		scheduler:   scheduler,
		executor:    executor,
		conditions:  conditions,
		repo:        repo,
		hub:         hub,
		metrics:     metrics,
		logger:      logger,
	}
}

// Create validates and stores a new automation. Time-based automations
// are registered with the scheduler immediately (new automations start
// enabled). Returns a copy of the stored automation.
func (c *Catalog) Create(name string, trigger Trigger, actions []Action, conditions []string) (*Automation, error) {
	description := fmt.Sprintf("Custom automation: %s", name)
	return c.create(name, description, trigger, actions, conditions)
}

// CreateFromTemplate instantiates a template, applying overrides
// field-by-field: a set override replaces the template value, an unset
// one inherits it. The result goes through the same validation as
// Create.
func (c *Catalog) CreateFromTemplate(templateID string, overrides TemplateOverrides) (*Automation, error) {
	c.mu.Lock()
	tmpl, ok := c.templates[templateID]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, templateID)
	}

	name := tmpl.Name
	if overrides.Name != nil {
		name = *overrides.Name
	}
	description := tmpl.Description
	if overrides.Description != nil {
		description = *overrides.Description
	}
	trigger := tmpl.Trigger
	if overrides.Trigger != nil {
		trigger = *overrides.Trigger
	}
	actions := tmpl.Actions
	if overrides.Actions != nil {
		actions = overrides.Actions
	}
	conditions := tmpl.Conditions
	if overrides.Conditions != nil {
		conditions = overrides.Conditions
	}

	return c.create(name, description, trigger, actions, conditions)
}

// create is the shared validation + store path.
func (c *Catalog) create(name, description string, trigger Trigger, actions []Action, conditions []string) (*Automation, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}
	if err := ValidateTrigger(trigger); err != nil {
		return nil, err
	}
	if err := ValidateActions(actions); err != nil {
		return nil, err
	}
	for _, cond := range conditions {
		if !c.conditions.Known(cond) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCondition, cond)
		}
	}
	if trigger.Kind == TriggerConditionBased && !c.conditions.Known(trigger.Condition) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCondition, trigger.Condition)
	}

	a := &Automation{
		ID:          GenerateID(),
		Name:        name,
		Description: description,
		Trigger:     trigger,
		Actions:     deepCopyActions(actions),
		Conditions:  append([]string(nil), conditions...),
		Enabled:     true,
		CreatedAt:   time.Now().UTC(),
		SuccessRate: 1.0,
	}
	a.Trigger.Params = deepCopyMap(trigger.Params)

	c.mu.Lock()
	c.automations[a.ID] = a
	if a.Trigger.Kind == TriggerTimeBased {
		// Expression already validated; Register cannot fail here.
		if err := c.scheduler.Register(a.ID, a.Trigger.Condition); err != nil {
			delete(c.automations, a.ID)
			c.mu.Unlock()
			return nil, err
		}
	}
	c.mu.Unlock()

	c.logger.Info("automation created",
		"automation_id", a.ID,
		"name", a.Name,
		"trigger_kind", a.Trigger.Kind,
		"actions", len(a.Actions),
	)
	return a.DeepCopy(), nil
}

// Get returns a copy of the automation, or ErrNotFound.
func (c *Catalog) Get(id string) (*Automation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.automations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a.DeepCopy(), nil
}

// List returns copies of all automations, sorted by creation time then
// ID for stable output.
func (c *Catalog) List() []*Automation {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Automation, 0, len(c.automations))
	for _, a := range c.automations {
		out = append(out, a.DeepCopy())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ListTemplates returns the available templates sorted by ID.
func (c *Catalog) ListTemplates() []Template {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Template, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Enable marks an automation enabled and, for time-based triggers,
// re-registers its schedule. Enabling an enabled automation is a no-op.
func (c *Catalog) Enable(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.automations[id]
	if !ok {
		return ErrNotFound
	}
	if a.Enabled {
		return nil
	}

	a.Enabled = true
	if a.Trigger.Kind == TriggerTimeBased {
		if err := c.scheduler.Register(a.ID, a.Trigger.Condition); err != nil {
			a.Enabled = false
			return err
		}
	}
	c.logger.Info("automation enabled", "automation_id", id, "name", a.Name)
	return nil
}

// Disable marks an automation disabled and cancels any pending timer.
// Disabling a disabled automation is a no-op.
func (c *Catalog) Disable(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.automations[id]
	if !ok {
		return ErrNotFound
	}
	if !a.Enabled {
		return nil
	}

	a.Enabled = false
	c.scheduler.Cancel(id)
	c.logger.Info("automation disabled", "automation_id", id, "name", a.Name)
	return nil
}

// Delete removes an automation and cancels any pending timer.
func (c *Catalog) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.automations[id]
	if !ok {
		return ErrNotFound
	}

	c.scheduler.Cancel(id)
	delete(c.automations, id)
	c.logger.Info("automation deleted", "automation_id", id, "name", a.Name)
	return nil
}

// Trigger runs an automation now.
//
// It re-checks enabled state and the condition gate at call time, so
// the scheduler, event ingestion, and the manual API all share one
// execution path. Actions run outside the catalog lock; the stats
// update afterwards is atomic under the lock.
func (c *Catalog) Trigger(ctx context.Context, id string, snap Snapshot) (*RunResult, error) {
	c.mu.Lock()
	a, ok := c.automations[id]
	if !ok {
		c.mu.Unlock()
		return nil, ErrNotFound
	}
	if !a.Enabled {
		c.mu.Unlock()
		return nil, ErrDisabled
	}

	// Snapshot everything the run needs, then release the lock.
	name := a.Name
	actions := deepCopyActions(a.Actions)
	triggerParams := deepCopyMap(a.Trigger.Params)

	// A condition-based trigger's predicate joins the gate: the
	// automation fires only when the predicate is observed true.
	var conditions []string
	if a.Trigger.Kind == TriggerConditionBased {
		conditions = append(conditions, a.Trigger.Condition)
	}
	conditions = append(conditions, a.Conditions...)
	c.mu.Unlock()

	if snap == nil {
		snap = Snapshot{}
	}

	if !c.conditions.Evaluate(conditions, snap, triggerParams) {
		c.logger.Debug("conditions not met", "automation_id", id, "name", name)
		return nil, ErrConditionsNotMet
	}

	started := time.Now().UTC()
	results := c.executor.Execute(ctx, actions, snap)
	duration := time.Since(started)

	succeeded := true
	for _, r := range results {
		if !r.Succeeded {
			succeeded = false
			break
		}
	}

	run := &RunResult{
		RunID:          GenerateID(),
		AutomationID:   id,
		AutomationName: name,
		ExecutedAt:     started,
		Succeeded:      succeeded,
		Results:        results,
		DurationMS:     duration.Milliseconds(),
	}

	c.recordRun(ctx, run, duration)
	return run, nil
}

// FireEvent triggers every enabled event-based automation whose trigger
// condition matches the event name. The event payload rides into each
// run's snapshot. Individual run failures are logged, never fatal.
func (c *Catalog) FireEvent(ctx context.Context, event string, snap Snapshot) []*RunResult {
	c.mu.Lock()
	var matched []string
	for id, a := range c.automations {
		if a.Enabled && a.Trigger.Kind == TriggerEventBased && a.Trigger.Condition == event {
			matched = append(matched, id)
		}
	}
	c.mu.Unlock()

	sort.Strings(matched)

	var runs []*RunResult
	for _, id := range matched {
		run, err := c.Trigger(ctx, id, snap)
		if err != nil {
			c.logger.Debug("event automation not run",
				"automation_id", id, "event", event, "reason", err)
			continue
		}
		runs = append(runs, run)
	}

	if len(matched) > 0 {
		c.logger.Info("event processed", "event", event, "matched", len(matched), "ran", len(runs))
	}
	return runs
}

// recordRun applies the post-run stats update under the lock, then
// hands the run to the optional audit, broadcast, and metrics sinks.
//
// success_rate is a running average seeded at 1.0:
//
//	rate' = (rate*count + outcome) / (count+1)
func (c *Catalog) recordRun(ctx context.Context, run *RunResult, duration time.Duration) {
	c.mu.Lock()
	if a, ok := c.automations[run.AutomationID]; ok {
		outcome := 0.0
		if run.Succeeded {
			outcome = 1.0
		}
		count := float64(a.RunCount)
		a.SuccessRate = (a.SuccessRate*count + outcome) / (count + 1)
		a.RunCount++
		executed := run.ExecutedAt
		a.LastRun = &executed
	}
	c.mu.Unlock()

	c.logger.Info("automation run completed",
		"automation_id", run.AutomationID,
		"name", run.AutomationName,
		"run_id", run.RunID,
		"succeeded", run.Succeeded,
		"actions", len(run.Results),
		"duration_ms", run.DurationMS,
	)

	if c.repo != nil {
		if err := c.repo.CreateRun(ctx, NewRunRecord(run)); err != nil {
			c.logger.Error("failed to persist run record",
				"run_id", run.RunID, "error", err)
		}
	}
	if c.hub != nil {
		c.hub.Broadcast("automations", map[string]any{
			"type":            "automation.run",
			"run_id":          run.RunID,
			"automation_id":   run.AutomationID,
			"automation_name": run.AutomationName,
			"succeeded":       run.Succeeded,
			"executed_at":     run.ExecutedAt,
			"duration_ms":     run.DurationMS,
		})
	}
	if c.metrics != nil {
		c.metrics.RecordRun(run.AutomationID, run.AutomationName, run.Succeeded, duration)
	}
}
