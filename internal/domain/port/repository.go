package port

import (
	"context"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/events"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

//go:generate mockgen -destination=mocks/mock_repository.go -package=mock_port -source=repository.go DecisionRepository

// ListFilter narrows a decision listing. Zero values mean no filter. Limit
// applies after ordering by most recent approval date.
type ListFilter struct {
	Status string
	Limit  int
}

// DecisionRepository persists and retrieves underwriting decisions. Save
// writes the decision's pending domain events to the outbox in the same
// transaction and fails with model.ErrOptimisticLock on a version mismatch.
type DecisionRepository interface {
	Save(ctx context.Context, decision model.UnderwritingDecision) error
	FindByID(ctx context.Context, id string) (model.UnderwritingDecision, error)
	List(ctx context.Context, filter ListFilter) ([]model.UnderwritingDecision, error)
	FindLegacy(ctx context.Context, limit int) ([]model.UnderwritingDecision, error)
}

// ---------------------------------------------------------------------------
// Cache and validation ports
// ---------------------------------------------------------------------------

// ClassificationCache memoises classifier results by profile key.
type ClassificationCache interface {
	Get(ctx context.Context, key string) (model.FundingProfile, bool, error)
	Set(ctx context.Context, key string, profile model.FundingProfile) error
}

// ApprovalValidator checks an encoded canonical approval list.
type ApprovalValidator interface {
	Validate(document []byte) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher delivers outbox entries to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, entries ...events.OutboxEntry) error
}
