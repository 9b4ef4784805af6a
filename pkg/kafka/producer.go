package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Message represents a Kafka message.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Producer wraps kafka-go writers, one per topic, created lazily.
type Producer struct {
	mu        sync.Mutex
	writers   map[string]*kafkago.Writer
	brokers   []string
	transport *kafkago.Transport
}

// NewProducer creates a Producer. An invalid SASL mechanism is reported here
// rather than on first publish.
func NewProducer(cfg Config) (*Producer, error) {
	mechanism, err := cfg.saslMechanism()
	if err != nil {
		return nil, err
	}

	var transport *kafkago.Transport
	if cfg.TLS || mechanism != nil {
		transport = &kafkago.Transport{TLS: cfg.tlsConfig(), SASL: mechanism}
	}

	return &Producer{
		writers:   make(map[string]*kafkago.Writer),
		brokers:   cfg.Brokers,
		transport: transport,
	}, nil
}

// Publish sends messages to the specified topic.
func (p *Producer) Publish(ctx context.Context, topic string, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}
	w := p.getOrCreateWriter(topic)

	if err := w.WriteMessages(ctx, toKafkaMessages(messages)...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	return nil
}

// Close closes all writers.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing writer for topic %s: %w", topic, err)
		}
	}
	p.writers = make(map[string]*kafkago.Writer)
	return firstErr
}

func (p *Producer) getOrCreateWriter(topic string) *kafkago.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}
	if p.transport != nil {
		w.Transport = p.transport
	}
	p.writers[topic] = w
	return w
}

// toKafkaMessages keys by aggregate so all events of one decision land on
// the same partition and keep their order.
func toKafkaMessages(messages []Message) []kafkago.Message {
	out := make([]kafkago.Message, 0, len(messages))
	for _, msg := range messages {
		km := kafkago.Message{Key: msg.Key, Value: msg.Value}
		for k, v := range msg.Headers {
			km.Headers = append(km.Headers, kafkago.Header{Key: k, Value: []byte(v)})
		}
		out = append(out, km)
	}
	return out
}
