package gateway

import "fmt"

// Topic prefixes for the Omni Core MQTT hierarchy.
const (
	// TopicPrefixCommand is the base for outbound action commands.
	// Scheme: omnicore/command/{service}/{kind}
	TopicPrefixCommand = "omnicore/command"

	// TopicPrefixEvent is the base for inbound assistant events.
	// Scheme: omnicore/event/{name}
	TopicPrefixEvent = "omnicore/event"
)

// Topics provides builders for gateway MQTT topics. Using these
// helpers keeps topic naming consistent across the codebase.
type Topics struct{}

// Command returns the topic a command for service/kind is published on.
//
// Example: omnicore/command/tasks/create_task
func (Topics) Command(service, kind string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixCommand, service, kind)
}

// Event returns the topic an external event is published on.
//
// Example: omnicore/event/task_completed
func (Topics) Event(name string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixEvent, name)
}

// AllEvents returns a pattern matching every inbound event topic.
//
// Pattern: omnicore/event/+
func (Topics) AllEvents() string {
	return TopicPrefixEvent + "/+"
}
