package testutil

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

// KafkaContainer wraps a testcontainers Kafka instance.
type KafkaContainer struct {
	Container *kafka.KafkaContainer
	Brokers   []string
}

// NewKafkaContainer starts a single-node Kafka and registers its teardown
// with t.Cleanup.
func NewKafkaContainer(ctx context.Context, t *testing.T) *KafkaContainer {
	t.Helper()

	kafkaContainer, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.6.1",
		kafka.WithClusterID("underwriting-test"),
	)
	if err != nil {
		t.Fatalf("failed to start kafka container: %v", err)
	}

	brokers, err := kafkaContainer.Brokers(ctx)
	if err != nil {
		t.Fatalf("failed to get kafka brokers: %v", err)
	}

	kc := &KafkaContainer{Container: kafkaContainer, Brokers: brokers}
	t.Cleanup(func() { kc.cleanup(t) })
	return kc
}

// CreateTopics creates single-partition topics through the cluster controller.
func (kc *KafkaContainer) CreateTopics(t *testing.T, topics ...string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", kc.Brokers[0])
	if err != nil {
		t.Fatalf("failed to dial kafka: %v", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		t.Fatalf("failed to find kafka controller: %v", err)
	}
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		t.Fatalf("failed to dial kafka controller: %v", err)
	}
	defer ctrl.Close()

	configs := make([]kafkago.TopicConfig, 0, len(topics))
	for _, topic := range topics {
		configs = append(configs, kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	}
	if err := ctrl.CreateTopics(configs...); err != nil {
		t.Fatalf("failed to create topics %v: %v", topics, err)
	}
}

func (kc *KafkaContainer) cleanup(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := kc.Container.Terminate(ctx); err != nil {
		t.Logf("warning: failed to terminate kafka container: %v", err)
	}
}
