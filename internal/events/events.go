// Package events publishes list and item change notifications to RabbitMQ
// so downstream consumers (sync clients, audit trails) can follow
// mutations. Publishing is best-effort: failures are logged and returned,
// and callers are expected to ignore them rather than fail the request.
package events

import "time"

// Queue is the durable queue every change event is published to.
const Queue = "list.events"

// Event types.
const (
	ListCreated = "list.created"
	ListUpdated = "list.updated"
	ListDeleted = "list.deleted"
	ListShared  = "list.shared"
	ItemCreated = "item.created"
	ItemUpdated = "item.updated"
	ItemDeleted = "item.deleted"
)

// Event describes one mutation. Ids travel as strings so consumers need no
// driver types to decode them.
type Event struct {
	Type       string    `json:"type"`
	ActorID    string    `json:"actorId"`
	ListID     string    `json:"listId,omitempty"`
	ItemID     string    `json:"itemId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
