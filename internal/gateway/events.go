package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/omnihq/omni-core/internal/automation"
	"github.com/omnihq/omni-core/internal/infrastructure/mqtt"
)

// eventQoS is the QoS level for inbound event subscriptions.
const eventQoS = 1

// Subscriber is the transport the event bridge listens through.
// Satisfied by *mqtt.Client.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// EventSink receives decoded events. Satisfied by *automation.Catalog
// (FireEvent).
type EventSink interface {
	FireEvent(ctx context.Context, event string, snap automation.Snapshot) []*automation.RunResult
}

// SnapshotSource supplies the base context snapshot merged under event
// payloads. May be nil.
type SnapshotSource interface {
	Snapshot() automation.Snapshot
}

// EventBridge feeds external events from omnicore/event/{name} into
// the automation catalog. The JSON payload (an object) is merged over
// the context snapshot, so event fields are available to condition
// gates and placeholders.
type EventBridge struct {
	sink     EventSink
	contexts SnapshotSource
	topics   Topics
	logger   Logger
}

// NewEventBridge creates a bridge firing events into sink. contexts
// and logger may be nil.
func NewEventBridge(sink EventSink, contexts SnapshotSource, logger Logger) *EventBridge {
	if logger == nil {
		logger = noopLogger{}
	}
	return &EventBridge{sink: sink, contexts: contexts, logger: logger}
}

// Start subscribes to the event topic pattern. The subscription is
// restored automatically on reconnect by the MQTT client.
func (b *EventBridge) Start(ctx context.Context, subscriber Subscriber) error {
	if err := subscriber.Subscribe(b.topics.AllEvents(), eventQoS, func(topic string, payload []byte) error {
		return b.handle(ctx, topic, payload)
	}); err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	b.logger.Info("event bridge listening", "topic", b.topics.AllEvents())
	return nil
}

// handle decodes one inbound event and fires matching automations.
func (b *EventBridge) handle(ctx context.Context, topic string, payload []byte) error {
	name := eventName(topic)
	if name == "" {
		return fmt.Errorf("gateway: event topic %q has no event name", topic)
	}

	snap := automation.Snapshot{}
	if b.contexts != nil {
		snap = b.contexts.Snapshot()
	}

	if len(payload) > 0 {
		var fields map[string]any
		if err := json.Unmarshal(payload, &fields); err != nil {
			b.logger.Warn("event payload is not a JSON object, ignoring fields",
				"event", name, "error", err)
		} else {
			for k, v := range fields {
				snap[k] = v
			}
		}
	}

	runs := b.sink.FireEvent(ctx, name, snap)
	b.logger.Debug("event dispatched", "event", name, "runs", len(runs))
	return nil
}

// eventName extracts the event name from an event topic.
// "omnicore/event/task_completed" -> "task_completed".
func eventName(topic string) string {
	rest, ok := strings.CutPrefix(topic, TopicPrefixEvent+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
