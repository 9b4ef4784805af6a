package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	AggregateType() string
	OccurredAt() time.Time
}

// BaseEvent provides a default implementation of DomainEvent. Its fields are
// exported so that events embedding it serialise with their envelope.
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"event_type"`
	Aggregate string    `json:"aggregate_id"`
	Kind      string    `json:"aggregate_type"`
	Occurred  time.Time `json:"occurred_at"`
}

// NewBaseEvent creates a BaseEvent with a generated UUID stamped at now.
func NewBaseEvent(eventType, aggregateID, aggregateType string, now time.Time) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Aggregate: aggregateID,
		Kind:      aggregateType,
		Occurred:  now.UTC(),
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }
func (e BaseEvent) AggregateType() string { return e.Kind }
func (e BaseEvent) OccurredAt() time.Time { return e.Occurred }
