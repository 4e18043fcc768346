// Package contextengine derives the assistant context snapshot used by
// automation condition gates and placeholder resolution: time-of-day
// classification, work/personal mode heuristics, manual overrides, and
// an in-memory meeting schedule for the upcoming_meeting condition.
package contextengine
