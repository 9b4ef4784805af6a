package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/dto"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/observability"
)

// ErrInvalidPayload is returned for intake documents that cannot be stored.
var ErrInvalidPayload = errors.New("invalid decision payload")

// IngestDecisionUseCase upserts decision documents from the intake platform,
// migrating legacy approval lists on the way in.
type IngestDecisionUseCase struct {
	repo      port.DecisionRepository
	validator port.ApprovalValidator
	metrics   *observability.EngineMetrics
	logger    *slog.Logger
}

// NewIngestDecisionUseCase wires dependencies.
func NewIngestDecisionUseCase(
	repo port.DecisionRepository,
	validator port.ApprovalValidator,
	metrics *observability.EngineMetrics,
	logger *slog.Logger,
) *IngestDecisionUseCase {
	return &IngestDecisionUseCase{
		repo:      repo,
		validator: validator,
		metrics:   metrics,
		logger:    observability.Component(logger, "ingest_decision"),
	}
}

// Execute converts, migrates and upserts one intake document.
func (uc *IngestDecisionUseCase) Execute(ctx context.Context, payload dto.IngestDecisionPayload) (dto.DecisionResponse, error) {
	ctx, span := tracer.Start(ctx, "IngestDecision")
	defer span.End()

	now := time.Now().UTC()

	// 1. Convert.
	raw, err := rawFromPayload(payload, now)
	if err != nil {
		return dto.DecisionResponse{}, err
	}

	// 2. Look up the stored version for the optimistic lock.
	version, found := 1, false
	existing, err := uc.repo.FindByID(ctx, raw.ID)
	switch {
	case err == nil:
		version, found = existing.Version(), true
	case errors.Is(err, model.ErrDecisionNotFound):
	default:
		return dto.DecisionResponse{}, fmt.Errorf("find decision: %w", err)
	}

	// 3. Migrate once, on the way in. The canonical list gets the same
	// checks an API write does.
	migrated := canonicalize(raw)
	entries := migrated.Approvals().Canonical
	if err := model.CheckSinglePrimary(entries); err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if err := validateApprovals(uc.validator, entries); err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	decision, err := model.ReconstructUnderwritingDecision(raw, version)
	if err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if raw.SchemaVersion < model.SchemaCanonical {
		decision = decision.ApplyMigration(migrated, MigrationSourceIngest, now)
		uc.metrics.RecordMigration(ctx, MigrationSourceIngest)
	}

	// 4. Persist.
	if err := uc.repo.Save(ctx, decision); err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("save decision: %w", err)
	}

	stored := decision.Version()
	if found {
		stored++
	}
	uc.logger.InfoContext(ctx, "decision ingested",
		"decision_id", decision.ID(), "status", decision.Status().String(), "existing", found)
	return toDecisionResponse(decision.Snapshot(), stored), nil
}

func rawFromPayload(p dto.IngestDecisionPayload, now time.Time) (model.RawDecision, error) {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return model.RawDecision{}, fmt.Errorf("%w: id is required", ErrInvalidPayload)
	}
	status := string(p.Status)
	if strings.TrimSpace(status) == "" {
		status = "pending"
	}

	raw := model.RawDecision{
		ID:            id,
		Status:        status,
		BusinessName:  string(p.BusinessName),
		BusinessEmail: string(p.BusinessEmail),
		PrimaryTerms: model.PrimaryTerms{
			AdvanceAmount:    string(p.AdvanceAmount),
			Lender:           string(p.Lender),
			Term:             string(p.Term),
			PaymentFrequency: string(p.PaymentFrequency),
			FactorRate:       string(p.FactorRate),
			MaxUpsell:        string(p.MaxUpsell),
			TotalPayback:     string(p.TotalPayback),
			NetAfterFees:     string(p.NetAfterFees),
			Notes:            string(p.Notes),
			ApprovalDate:     string(p.ApprovalDate),
		},
		AdditionalApprovals: p.AdditionalApprovals,
		SchemaVersion:       model.SchemaVersion(p.SchemaVersion),
	}
	if fd, ok := model.ParseTimestamp(string(p.FundedDate)); ok {
		raw.FundedDate = &fd
	}
	if t, ok := model.ParseTimestamp(string(p.CreatedAt)); ok {
		raw.CreatedAt = t
	} else {
		raw.CreatedAt = now
	}
	if t, ok := model.ParseTimestamp(string(p.UpdatedAt)); ok {
		raw.UpdatedAt = t
	} else {
		raw.UpdatedAt = raw.CreatedAt
	}
	return raw, nil
}
