package mqtt

import "fmt"

// Topic prefixes for Omni Core MQTT traffic.
//
// The full topic scheme:
//
//	omnicore/system/...            lifecycle and health (owned here)
//	omnicore/command/{service}/... outbound action commands (gateway package)
//	omnicore/event/{name}          inbound events (gateway package)
const (
	// TopicPrefixRoot is the base for all Omni Core topics.
	TopicPrefixRoot = "omnicore"

	// TopicPrefixSystem is the base for system lifecycle topics.
	TopicPrefixSystem = "omnicore/system"
)

// Topics provides builders for the system-level MQTT topics used by the
// client itself (LWT, status). Domain topics for commands and events are
// built in the gateway package.
type Topics struct{}

// SystemStatus returns the system status topic.
// Online/offline payloads are published here, retained, and the LWT
// targets the same topic so crashes flip the status automatically.
//
// Example: omnicore/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// SystemTime returns the time sync topic.
//
// Example: omnicore/system/time
func (Topics) SystemTime() string {
	return fmt.Sprintf("%s/time", TopicPrefixSystem)
}

// SystemShutdown returns the shutdown signal topic.
//
// Example: omnicore/system/shutdown
func (Topics) SystemShutdown() string {
	return fmt.Sprintf("%s/shutdown", TopicPrefixSystem)
}

// AllTopics returns a pattern matching all Omni Core topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: omnicore/#
func (Topics) AllTopics() string {
	return TopicPrefixRoot + "/#"
}
