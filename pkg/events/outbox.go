package events

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// OutboxEntry represents a domain event stored in the outbox table.
type OutboxEntry struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// NewOutboxEntry creates an OutboxEntry from a DomainEvent.
// The payload is the JSON encoding of the event itself.
func NewOutboxEntry(event DomainEvent) (OutboxEntry, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return OutboxEntry{}, fmt.Errorf("events: marshal %s: %w", event.EventType(), err)
	}
	return OutboxEntry{
		ID:            event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		EventType:     event.EventType(),
		Payload:       payload,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

// OutboxRepository is the port for outbox persistence.
type OutboxRepository interface {
	FetchUnpublished(ctx context.Context, batchSize int) ([]OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []string, at time.Time) error
}
