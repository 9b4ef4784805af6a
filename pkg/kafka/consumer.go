package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes a consumed Kafka message.
type Handler func(ctx context.Context, msg Message) error

// messageReader is the subset of *kafkago.Reader the consumer drives.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer wraps a kafka-go reader and commits each message after its
// handler succeeds. A failing message is retried with exponential backoff
// until it succeeds or the context ends; later messages are not fetched
// meanwhile, so the group offset never moves past an unprocessed message.
type Consumer struct {
	reader       messageReader
	handler      Handler
	logger       *slog.Logger
	topic        string
	group        string
	retryBase    time.Duration
	retryCeiling time.Duration
}

// NewConsumer creates a Consumer for the given topic.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	mechanism, err := cfg.saslMechanism()
	if err != nil {
		return nil, err
	}

	readerCfg := kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10 * 1024 * 1024,
	}
	if cfg.TLS || mechanism != nil {
		readerCfg.Dialer = &kafkago.Dialer{TLS: cfg.tlsConfig(), SASLMechanism: mechanism}
	}

	return newConsumer(kafkago.NewReader(readerCfg), cfg, topic, handler, logger), nil
}

func newConsumer(reader messageReader, cfg Config, topic string, handler Handler, logger *slog.Logger) *Consumer {
	base, ceiling := cfg.retryBackoff()
	return &Consumer{
		reader:       reader,
		handler:      handler,
		logger:       logger,
		topic:        topic,
		group:        cfg.ConsumerGroup,
		retryBase:    base,
		retryCeiling: ceiling,
	}
}

// Start consumes messages until the context is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer starting", "topic", c.topic, "group", c.group)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if isContextErr(err) {
				c.logger.Info("consumer stopping due to context cancellation")
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		if err := c.handleWithRetry(ctx, m); err != nil {
			c.logger.Info("consumer stopping with message uncommitted",
				"partition", m.Partition, "offset", m.Offset)
			return nil
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if isContextErr(err) {
				return nil
			}
			c.logger.Error("commit error",
				"topic", m.Topic,
				"partition", m.Partition,
				"offset", m.Offset,
				"error", err,
			)
		}
	}
}

// handleWithRetry runs the handler until it succeeds. It only fails when
// ctx ends.
func (c *Consumer) handleWithRetry(ctx context.Context, m kafkago.Message) error {
	msg := fromKafkaMessage(m)
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}

		err := c.handler(ctx, msg)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Error("handler error, retrying",
			"topic", m.Topic,
			"partition", m.Partition,
			"offset", m.Offset,
			"attempt", attempt+1,
			"error", err,
		)
	}
}

// backoff doubles per attempt from retryBase, capped at retryCeiling, with
// up to 50% jitter.
func (c *Consumer) backoff(attempt int) time.Duration {
	d := c.retryBase
	for i := 1; i < attempt && d < c.retryCeiling; i++ {
		d *= 2
	}
	d = min(d, c.retryCeiling)
	if half := int64(d) / 2; half > 0 {
		d += time.Duration(rand.Int63n(half))
	}
	return d
}

// Close closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func fromKafkaMessage(m kafkago.Message) Message {
	msg := Message{
		Key:     m.Key,
		Value:   m.Value,
		Headers: make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}
