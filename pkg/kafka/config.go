package kafka

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Config holds Kafka connection parameters.
type Config struct {
	ConsumerGroup string

	// SASL configuration for authentication.
	SASLMechanism string // "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	Brokers []string

	TLS         bool
	SASLEnabled bool

	// RetryBackoff is the first delay before a failed message is handed to
	// the handler again. It doubles per attempt up to MaxRetryBackoff.
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
}

const (
	defaultRetryBackoff    = 200 * time.Millisecond
	defaultMaxRetryBackoff = 30 * time.Second
)

func (c Config) retryBackoff() (base, ceiling time.Duration) {
	base, ceiling = c.RetryBackoff, c.MaxRetryBackoff
	if base <= 0 {
		base = defaultRetryBackoff
	}
	if ceiling < base {
		ceiling = max(defaultMaxRetryBackoff, base)
	}
	return base, ceiling
}

func (c Config) tlsConfig() *tls.Config {
	if !c.TLS {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

// saslMechanism returns nil when SASL is disabled.
func (c Config) saslMechanism() (sasl.Mechanism, error) {
	if !c.SASLEnabled {
		return nil, nil
	}
	switch c.SASLMechanism {
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, c.SASLUsername, c.SASLPassword)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, c.SASLUsername, c.SASLPassword)
	case "PLAIN", "":
		return plain.Mechanism{Username: c.SASLUsername, Password: c.SASLPassword}, nil
	default:
		return nil, fmt.Errorf("kafka: unsupported SASL mechanism %q", c.SASLMechanism)
	}
}
