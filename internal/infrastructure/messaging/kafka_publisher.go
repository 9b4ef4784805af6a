package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/events"
	pkgkafka "github.com/trevorb11/CapitalLoanConnect-sub004/pkg/kafka"
)

// MessageProducer is satisfied by *pkgkafka.Producer.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// KafkaEventPublisher implements port.EventPublisher by writing outbox
// entries to Kafka keyed by decision ID.
type KafkaEventPublisher struct {
	producer MessageProducer
	topic    string
	logger   *slog.Logger
}

var _ port.EventPublisher = (*KafkaEventPublisher)(nil)

// NewKafkaEventPublisher creates a publisher targeting the given producer and topic.
func NewKafkaEventPublisher(producer MessageProducer, topic string, logger *slog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends entries in one batch. Entries already carry their JSON payload.
func (p *KafkaEventPublisher) Publish(ctx context.Context, entries ...events.OutboxEntry) error {
	messages := make([]pkgkafka.Message, 0, len(entries))
	for _, e := range entries {
		p.logger.DebugContext(ctx, "publishing domain event",
			"event_type", e.EventType,
			"aggregate_id", e.AggregateID,
			"topic", p.topic,
			"payload_size", len(e.Payload),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
			Headers: map[string]string{
				"event_type":     e.EventType,
				"event_id":       e.ID,
				"aggregate_type": e.AggregateType,
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}
	return nil
}
