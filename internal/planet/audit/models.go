// Package audit records planet lifecycle events after successful mutations.
//
// Events are emitted once the store has committed the change. Sinks are
// pluggable: a slog-only publisher for local runs, an in-memory store for
// tests, and a Kafka publisher for deployments with an event pipeline.
package audit

import "time"

// EventType names a planet lifecycle transition.
type EventType string

const (
	EventPlanetCreated EventType = "planet_created"
	EventPlanetUpdated EventType = "planet_updated"
	EventPlanetPatched EventType = "planet_patched"
	EventPlanetDeleted EventType = "planet_deleted"
)

// Event is transport-agnostic so sinks can fan out.
type Event struct {
	Type      EventType `json:"type"`
	PlanetID  string    `json:"planet_id"`
	Name      string    `json:"name,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
