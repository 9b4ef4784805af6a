package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/dto"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/valueobject"
)

// UpdateDecisionUseCase applies a reviewer's edit: a status change, a full
// replacement of the approval list, or both.
type UpdateDecisionUseCase struct {
	repo      port.DecisionRepository
	validator port.ApprovalValidator
}

// NewUpdateDecisionUseCase wires dependencies.
func NewUpdateDecisionUseCase(repo port.DecisionRepository, validator port.ApprovalValidator) *UpdateDecisionUseCase {
	return &UpdateDecisionUseCase{repo: repo, validator: validator}
}

// Execute loads the decision, applies the edit and persists the full
// canonical approval list so later reads never take the legacy path.
func (uc *UpdateDecisionUseCase) Execute(ctx context.Context, req dto.UpdateDecisionRequest) (dto.DecisionResponse, error) {
	ctx, span := tracer.Start(ctx, "UpdateDecision")
	defer span.End()

	now := time.Now().UTC()

	// 1. Load.
	decision, err := uc.repo.FindByID(ctx, req.ID)
	if err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("find decision: %w", err)
	}
	original := decision

	// 2. Status change with funded side effects.
	if strings.TrimSpace(req.Status) != "" {
		status, err := valueobject.NewDecisionStatus(req.Status)
		if err != nil {
			return dto.DecisionResponse{}, fmt.Errorf("parse status: %w", err)
		}
		decision = decision.ChangeStatus(status, now)
	}

	// 3. Replace approvals.
	if req.Approvals != nil {
		entries := toApprovalEntries(req.Approvals)
		if err := validateApprovals(uc.validator, entries); err != nil {
			return dto.DecisionResponse{}, err
		}
		decision, err = decision.ReplaceApprovals(entries, now)
		if err != nil {
			return dto.DecisionResponse{}, fmt.Errorf("replace approvals: %w", err)
		}
	}

	if len(decision.DomainEvents()) == len(original.DomainEvents()) &&
		decision.UpdatedAt().Equal(original.UpdatedAt()) {
		return toDecisionResponse(decision.Snapshot(), decision.Version()), nil
	}

	// 4. Persist.
	if err := uc.repo.Save(ctx, decision); err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("save decision: %w", err)
	}

	return toDecisionResponse(decision.Snapshot(), decision.Version()+1), nil
}
