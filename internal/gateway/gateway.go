package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/omnihq/omni-core/internal/automation"
)

// Default service names per action kind, used when the action does not
// name a service explicitly.
const (
	defaultMessagingService = "messaging"
	defaultTaskService      = "tasks"
	defaultEmailService     = "email"
	defaultCalendarService  = "calendar"
)

// commandQoS is the QoS level for outbound command publishes.
// At-least-once: downstream connectors deduplicate on command_id.
const commandQoS = 1

// Publisher is the transport the gateway publishes commands through.
// Satisfied by *mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Logger defines the logging interface used by the gateway.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// command is the wire format published to downstream connectors.
type command struct {
	CommandID string         `json:"command_id"`
	Kind      string         `json:"kind"`
	Service   string         `json:"service"`
	Params    map[string]any `json:"params,omitempty"`
	IssuedAt  time.Time      `json:"issued_at"`
}

// ServiceGateway implements automation.Gateway.
//
// Outward-facing kinds (messages, tasks, email, calendar events) are
// published as MQTT commands on omnicore/command/{service}/{kind};
// real connectors are downstream subscribers. Local kinds (reminders,
// activity log, music, scripts) are acknowledged in-process.
type ServiceGateway struct {
	publisher Publisher
	topics    Topics
	logger    Logger
}

// New creates a gateway publishing through publisher. logger may be nil.
func New(publisher Publisher, logger Logger) *ServiceGateway {
	if logger == nil {
		logger = noopLogger{}
	}
	return &ServiceGateway{publisher: publisher, logger: logger}
}

// publish serialises and sends one command, returning the output map
// merged into the run's placeholder scope.
func (g *ServiceGateway) publish(kind automation.ActionKind, service string, params map[string]any) (map[string]any, error) {
	cmd := command{
		CommandID: uuid.New().String(),
		Kind:      string(kind),
		Service:   service,
		Params:    params,
		IssuedAt:  time.Now().UTC(),
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("marshalling command: %w", err)
	}

	topic := g.topics.Command(service, string(kind))
	if err := g.publisher.Publish(topic, payload, commandQoS, false); err != nil {
		return nil, fmt.Errorf("publishing command: %w", err)
	}

	g.logger.Debug("command published",
		"command_id", cmd.CommandID, "kind", cmd.Kind, "service", service, "topic", topic)

	return map[string]any{
		"command_id": cmd.CommandID,
		"service":    service,
	}, nil
}

// serviceOrDefault falls back to the kind's conventional service name.
func serviceOrDefault(service, fallback string) string {
	if service != "" {
		return service
	}
	return fallback
}

// SendMessage publishes a send_message command.
func (g *ServiceGateway) SendMessage(_ context.Context, service string, params map[string]any) (map[string]any, error) {
	return g.publish(automation.ActionSendMessage, serviceOrDefault(service, defaultMessagingService), params)
}

// CreateTask publishes a create_task command. The returned task_id is
// assigned here so later actions can reference {task_id}; connectors
// adopt it as the canonical identifier.
func (g *ServiceGateway) CreateTask(_ context.Context, service string, params map[string]any) (map[string]any, error) {
	out, err := g.publish(automation.ActionCreateTask, serviceOrDefault(service, defaultTaskService), params)
	if err != nil {
		return nil, err
	}
	out["task_id"] = uuid.New().String()
	return out, nil
}

// UpdateTask publishes an update_task command.
func (g *ServiceGateway) UpdateTask(_ context.Context, service string, params map[string]any) (map[string]any, error) {
	return g.publish(automation.ActionUpdateTask, serviceOrDefault(service, defaultTaskService), params)
}

// SendEmail publishes a send_email command.
func (g *ServiceGateway) SendEmail(_ context.Context, service string, params map[string]any) (map[string]any, error) {
	return g.publish(automation.ActionSendEmail, serviceOrDefault(service, defaultEmailService), params)
}

// CreateCalendarEvent publishes a create_calendar_event command.
func (g *ServiceGateway) CreateCalendarEvent(_ context.Context, service string, params map[string]any) (map[string]any, error) {
	out, err := g.publish(automation.ActionCreateCalendarEvent, serviceOrDefault(service, defaultCalendarService), params)
	if err != nil {
		return nil, err
	}
	out["event_id"] = uuid.New().String()
	return out, nil
}

// PlayMusic acknowledges a play_music action locally. No music backend
// ships with the core; the acknowledgement keeps runs flowing.
func (g *ServiceGateway) PlayMusic(_ context.Context, service string, params map[string]any) (map[string]any, error) {
	g.logger.Info("music playback requested", "service", service, "params", params)
	return map[string]any{"status": "acknowledged"}, nil
}

// SetReminder acknowledges a set_reminder action locally.
func (g *ServiceGateway) SetReminder(_ context.Context, params map[string]any) (map[string]any, error) {
	reminderID := uuid.New().String()
	g.logger.Info("reminder set", "reminder_id", reminderID, "params", params)
	return map[string]any{"reminder_id": reminderID, "status": "acknowledged"}, nil
}

// LogActivity records an activity entry through the logger.
func (g *ServiceGateway) LogActivity(_ context.Context, params map[string]any) (map[string]any, error) {
	g.logger.Info("activity logged", "params", params)
	return map[string]any{"status": "logged"}, nil
}

// RunScript acknowledges a custom_script action locally. Script
// execution is a downstream concern; the core records the request.
func (g *ServiceGateway) RunScript(_ context.Context, params map[string]any) (map[string]any, error) {
	g.logger.Info("custom script requested", "params", params)
	return map[string]any{"status": "acknowledged"}, nil
}
