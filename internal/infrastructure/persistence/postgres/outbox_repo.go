package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/events"
	pkgpostgres "github.com/trevorb11/CapitalLoanConnect-sub004/pkg/postgres"
)

// OutboxRepo implements events.OutboxRepository.
type OutboxRepo struct {
	db pkgpostgres.Querier
}

var _ events.OutboxRepository = (*OutboxRepo)(nil)

func NewOutboxRepo(db pkgpostgres.Querier) *OutboxRepo {
	return &OutboxRepo{db: db}
}

// FetchUnpublished returns the oldest unpublished entries.
func (r *OutboxRepo) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	query := `
		SELECT id, aggregate_id, aggregate_type, event_type, payload, created_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, batchSize)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var result []events.OutboxEntry
	for rows.Next() {
		var e events.OutboxEntry
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// MarkPublished stamps the given entries as delivered.
func (r *OutboxRepo) MarkPublished(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE outbox_events SET published_at = $2 WHERE id = ANY($1) AND published_at IS NULL`
	if _, err := r.db.Exec(ctx, query, ids, at.UTC()); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}

func insertOutbox(ctx context.Context, q pkgpostgres.Querier, e events.OutboxEntry) error {
	query := `
		INSERT INTO outbox_events (id, aggregate_id, aggregate_type, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := q.Exec(ctx, query, e.ID, e.AggregateID, e.AggregateType, e.EventType, e.Payload, e.CreatedAt); err != nil {
		return fmt.Errorf("insert outbox event %s: %w", e.EventType, err)
	}
	return nil
}
