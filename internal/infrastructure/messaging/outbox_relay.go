package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/events"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/observability"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultRelayBatch   = 100
)

// OutboxRelay moves committed outbox entries to the event publisher.
// Delivery is at least once: a crash between publish and mark resends.
type OutboxRelay struct {
	outbox    events.OutboxRepository
	publisher port.EventPublisher
	metrics   *observability.EngineMetrics
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

// NewOutboxRelay wires dependencies. Non-positive interval or batch size
// fall back to defaults.
func NewOutboxRelay(
	outbox events.OutboxRepository,
	publisher port.EventPublisher,
	metrics *observability.EngineMetrics,
	logger *slog.Logger,
	interval time.Duration,
	batchSize int,
) *OutboxRelay {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if batchSize <= 0 {
		batchSize = defaultRelayBatch
	}
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		metrics:   metrics,
		logger:    observability.Component(logger, "outbox_relay"),
		interval:  interval,
		batchSize: batchSize,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run relays until ctx is canceled. Errors are logged and retried on the
// next tick.
func (r *OutboxRelay) Run(ctx context.Context) error {
	r.logger.Info("outbox relay starting", "interval", r.interval, "batch_size", r.batchSize)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopping")
			return nil
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil {
				r.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
			}
		}
	}
}

// RelayOnce drains the outbox batch by batch and returns how many entries
// were published.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	total := 0
	for {
		entries, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
		if err != nil {
			return total, fmt.Errorf("fetch outbox: %w", err)
		}
		if len(entries) == 0 {
			return total, nil
		}

		if err := r.publisher.Publish(ctx, entries...); err != nil {
			return total, fmt.Errorf("publish outbox: %w", err)
		}

		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		if err := r.outbox.MarkPublished(ctx, ids, r.now()); err != nil {
			return total, fmt.Errorf("mark outbox published: %w", err)
		}

		total += len(entries)
		r.metrics.RecordOutboxRelayed(ctx, len(entries))
		r.logger.DebugContext(ctx, "outbox batch relayed", "count", len(entries))

		if len(entries) < r.batchSize {
			return total, nil
		}
	}
}
