package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordRun writes an automation run outcome to InfluxDB.
//
// This satisfies the catalog's MetricsRecorder interface, so run history
// accumulates as a time series alongside the authoritative SQLite records.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - automationID: Unique identifier for the automation
//   - automationName: Human-readable automation name (tag, low cardinality)
//   - succeeded: Whether every action in the run succeeded
//   - duration: Wall-clock time the run took
func (c *Client) RecordRun(automationID, automationName string, succeeded bool, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	success := 0
	if succeeded {
		success = 1
	}

	point := write.NewPoint(
		"automation_runs",
		map[string]string{
			"automation_id":   automationID,
			"automation_name": automationName,
		},
		map[string]interface{}{
			"succeeded":   success,
			"duration_ms": duration.Milliseconds(),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteActionMetric writes a per-action execution measurement.
//
// Used for tracking which action kinds fail most and how long each takes.
//
// Parameters:
//   - automationID: Automation the action belongs to
//   - actionKind: The action kind (e.g., "send_message", "create_task")
//   - succeeded: Whether the action completed without error
//   - durationMS: Action execution time in milliseconds
func (c *Client) WriteActionMetric(automationID, actionKind string, succeeded bool, durationMS int64) {
	if !c.IsConnected() {
		return
	}

	success := 0
	if succeeded {
		success = 1
	}

	point := write.NewPoint(
		"automation_actions",
		map[string]string{
			"automation_id": automationID,
			"action_kind":   actionKind,
		},
		map[string]interface{}{
			"succeeded":   success,
			"duration_ms": durationMS,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "core-01"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
