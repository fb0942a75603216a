package eventbus

import "time"

// Kind names a queue event.
type Kind string

const (
	KindAdded          Kind = "added"
	KindRemoved        Kind = "removed"
	KindCleared        Kind = "cleared"
	KindStatusChanged  Kind = "status-changed"
	KindSummaryUpdated Kind = "summary-updated"
)

// Event is delivered to observers. SessionID is empty for KindCleared.
type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	SessionID string    `json:"sessionId,omitempty"`
	Status    string    `json:"status,omitempty"`
	At        time.Time `json:"at"`
}

// Bus is a fire-and-forget fan-out of events to in-process observers.
// Publish never blocks the caller and never reports delivery.
type Bus interface {
	Publish(ev Event)
	Subscribe(buffer int) (<-chan Event, func())
	Close()
}
