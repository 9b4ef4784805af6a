package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/dto"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/service"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/valueobject"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/observability"
)

// ListDecisionsUseCase lists decisions newest approval first.
type ListDecisionsUseCase struct {
	repo    port.DecisionRepository
	metrics *observability.EngineMetrics
}

// NewListDecisionsUseCase wires dependencies.
func NewListDecisionsUseCase(repo port.DecisionRepository, metrics *observability.EngineMetrics) *ListDecisionsUseCase {
	return &ListDecisionsUseCase{repo: repo, metrics: metrics}
}

// Execute loads, reconciles and sorts decisions.
func (uc *ListDecisionsUseCase) Execute(ctx context.Context, req dto.ListDecisionsRequest) (dto.ListDecisionsResponse, error) {
	ctx, span := tracer.Start(ctx, "ListDecisions")
	defer span.End()

	filter := port.ListFilter{Limit: req.Limit}
	if strings.TrimSpace(req.Status) != "" {
		status, err := valueobject.NewDecisionStatus(req.Status)
		if err != nil {
			return dto.ListDecisionsResponse{}, fmt.Errorf("parse status filter: %w", err)
		}
		filter.Status = status.String()
	}

	decisions, err := uc.repo.List(ctx, filter)
	if err != nil {
		return dto.ListDecisionsResponse{}, fmt.Errorf("list decisions: %w", err)
	}

	raws := make([]model.RawDecision, len(decisions))
	versions := make(map[string]int, len(decisions))
	for i, d := range decisions {
		raws[i] = d.Snapshot()
		versions[d.ID()] = d.Version()
		uc.metrics.RecordReconciliation(ctx, raws[i].Approvals().Shape())
	}

	resp := dto.ListDecisionsResponse{Decisions: make([]dto.DecisionResponse, 0, len(raws))}
	for _, raw := range service.SortByMostRecentApproval(raws) {
		resp.Decisions = append(resp.Decisions, toDecisionResponse(raw, versions[raw.ID]))
	}
	return resp, nil
}
