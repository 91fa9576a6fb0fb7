package events

import "time"

// Event is a domain event published on the NATS stream, such as a note
// being created or shared.
type Event interface {
	// EventType returns the event's type code, e.g. "NOTE_CREATED".
	EventType() string

	// Payload returns the event's attributes.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic Event used on both the publish and consume
// sides; the envelope on the wire maps onto it field for field.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
