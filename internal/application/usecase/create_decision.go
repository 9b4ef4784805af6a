package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/dto"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/valueobject"
)

// CreateDecisionUseCase records a reviewer's new underwriting decision.
type CreateDecisionUseCase struct {
	repo      port.DecisionRepository
	validator port.ApprovalValidator
}

// NewCreateDecisionUseCase wires dependencies.
func NewCreateDecisionUseCase(repo port.DecisionRepository, validator port.ApprovalValidator) *CreateDecisionUseCase {
	return &CreateDecisionUseCase{repo: repo, validator: validator}
}

// Execute validates, creates and persists the decision. Its created event
// is written to the outbox by the repository.
func (uc *CreateDecisionUseCase) Execute(
	ctx context.Context,
	req dto.CreateDecisionRequest,
) (dto.DecisionResponse, error) {
	ctx, span := tracer.Start(ctx, "CreateDecision")
	defer span.End()

	now := time.Now().UTC()

	// 1. Parse status; empty means pending.
	status := valueobject.DecisionStatusPending
	if strings.TrimSpace(req.Status) != "" {
		parsed, err := valueobject.NewDecisionStatus(req.Status)
		if err != nil {
			return dto.DecisionResponse{}, fmt.Errorf("parse status: %w", err)
		}
		status = parsed
	}

	// 2. Validate the approval list.
	entries := toApprovalEntries(req.Approvals)
	if err := validateApprovals(uc.validator, entries); err != nil {
		return dto.DecisionResponse{}, err
	}

	// 3. Create the aggregate.
	decision, err := model.NewUnderwritingDecision(req.BusinessName, req.BusinessEmail, status, entries, now)
	if err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("create decision: %w", err)
	}

	// 4. Persist with events.
	if err := uc.repo.Save(ctx, decision); err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("save decision: %w", err)
	}

	return toDecisionResponse(decision.Snapshot(), decision.Version()), nil
}

// validateApprovals checks the encoded list against the approval schema.
func validateApprovals(v port.ApprovalValidator, entries []model.ApprovalEntry) error {
	if v == nil {
		return nil
	}
	if err := v.Validate(model.EncodeApprovals(entries)); err != nil {
		return fmt.Errorf("validate approvals: %w", err)
	}
	return nil
}
