package usecase

import (
	"context"
	"fmt"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/dto"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/observability"
)

// GetDecisionUseCase loads a decision and reconciles its approvals at read time.
type GetDecisionUseCase struct {
	repo    port.DecisionRepository
	metrics *observability.EngineMetrics
}

// NewGetDecisionUseCase wires dependencies.
func NewGetDecisionUseCase(repo port.DecisionRepository, metrics *observability.EngineMetrics) *GetDecisionUseCase {
	return &GetDecisionUseCase{repo: repo, metrics: metrics}
}

// Execute retrieves a decision by ID.
func (uc *GetDecisionUseCase) Execute(ctx context.Context, req dto.GetDecisionRequest) (dto.DecisionResponse, error) {
	ctx, span := tracer.Start(ctx, "GetDecision")
	defer span.End()

	decision, err := uc.repo.FindByID(ctx, req.ID)
	if err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("find decision: %w", err)
	}

	raw := decision.Snapshot()
	uc.metrics.RecordReconciliation(ctx, raw.Approvals().Shape())
	return toDecisionResponse(raw, decision.Version()), nil
}
