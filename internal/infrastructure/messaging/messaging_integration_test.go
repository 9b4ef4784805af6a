//go:build integration

package messaging_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/dto"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/infrastructure/messaging"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/events"
	pkgkafka "github.com/trevorb11/CapitalLoanConnect-sub004/pkg/kafka"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/testutil"
)

const (
	eventsTopic = "underwriting-events"
	intakeTopic = "underwriting-intake"
)

type chanIngester chan dto.IngestDecisionPayload

func (c chanIngester) Execute(_ context.Context, p dto.IngestDecisionPayload) (dto.DecisionResponse, error) {
	c <- p
	return dto.DecisionResponse{ID: p.ID}, nil
}

func TestKafkaRoundTrip_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	kc := testutil.NewKafkaContainer(ctx, t)
	kc.CreateTopics(t, eventsTopic, intakeTopic)
	cfg := pkgkafka.Config{Brokers: kc.Brokers, ConsumerGroup: "underwriting-it"}

	producer, err := pkgkafka.NewProducer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = producer.Close() })

	t.Run("relay publishes outbox entries with envelope headers", func(t *testing.T) {
		outbox := &mockOutbox{pending: []events.OutboxEntry{{
			ID:            "evt-1",
			AggregateID:   "dec-1",
			AggregateType: "UnderwritingDecision",
			EventType:     "underwriting.decision.created",
			Payload:       []byte(`{"aggregate_id":"dec-1"}`),
		}}}
		relay := messaging.NewOutboxRelay(outbox,
			messaging.NewKafkaEventPublisher(producer, eventsTopic, discardLogger),
			nil, discardLogger, time.Second, 10)

		n, err := relay.RelayOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, 1, outbox.publishedCount())

		received := make(chan pkgkafka.Message, 1)
		consumer, err := pkgkafka.NewConsumer(cfg, eventsTopic, func(_ context.Context, m pkgkafka.Message) error {
			received <- m
			return nil
		}, discardLogger)
		require.NoError(t, err)
		t.Cleanup(func() { _ = consumer.Close() })

		consumeCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() { _ = consumer.Start(consumeCtx) }()

		select {
		case m := <-received:
			assert.Equal(t, "dec-1", string(m.Key))
			assert.Equal(t, "evt-1", m.Headers["event_id"])
			assert.Equal(t, "underwriting.decision.created", m.Headers["event_type"])
			assert.Equal(t, "UnderwritingDecision", m.Headers["aggregate_type"])
		case <-ctx.Done():
			t.Fatal("timed out waiting for relayed event")
		}
	})

	t.Run("intake consumer hands documents to the ingester", func(t *testing.T) {
		ingested := make(chanIngester, 1)
		handler := messaging.NewIntakeHandler(ingested, discardLogger)

		intakeCfg := cfg
		intakeCfg.ConsumerGroup = "underwriting-intake-it"
		consumer, err := pkgkafka.NewConsumer(intakeCfg, intakeTopic, handler.Handle, discardLogger)
		require.NoError(t, err)
		t.Cleanup(func() { _ = consumer.Close() })

		consumeCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() { _ = consumer.Start(consumeCtx) }()

		require.NoError(t, producer.Publish(ctx, intakeTopic, pkgkafka.Message{
			Key:   []byte("legacy-7"),
			Value: []byte(`{"id":"legacy-7","status":"approved","businessName":"Legacy Co","advanceAmount":10000,"lender":"Y"}`),
		}))

		select {
		case p := <-ingested:
			assert.Equal(t, "legacy-7", p.ID)
			assert.Equal(t, "10000", string(p.AdvanceAmount))
		case <-ctx.Done():
			t.Fatal("timed out waiting for intake document")
		}
	})
}
