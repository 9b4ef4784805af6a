package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/dto"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/service"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/observability"
)

const defaultMigrationBatchSize = 100

// MigrateLegacyDecisionsUseCase rewrites stored decisions into the
// canonical approval shape, once, so reads stop relying on shape detection.
type MigrateLegacyDecisionsUseCase struct {
	repo    port.DecisionRepository
	metrics *observability.EngineMetrics
	logger  *slog.Logger
}

// NewMigrateLegacyDecisionsUseCase wires dependencies.
func NewMigrateLegacyDecisionsUseCase(
	repo port.DecisionRepository,
	metrics *observability.EngineMetrics,
	logger *slog.Logger,
) *MigrateLegacyDecisionsUseCase {
	return &MigrateLegacyDecisionsUseCase{
		repo:    repo,
		metrics: metrics,
		logger:  observability.Component(logger, "migrate_legacy"),
	}
}

// Execute migrates batches until none remain. A dry run inspects a single
// batch and writes nothing. Decisions that lose an optimistic lock are
// skipped and picked up by the next run.
func (uc *MigrateLegacyDecisionsUseCase) Execute(ctx context.Context, req dto.MigrateLegacyRequest) (dto.MigrateLegacyResponse, error) {
	ctx, span := tracer.Start(ctx, "MigrateLegacyDecisions")
	defer span.End()

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = defaultMigrationBatchSize
	}
	resp := dto.MigrateLegacyResponse{DryRun: req.DryRun, DecisionIDs: []string{}}

	for {
		if err := ctx.Err(); err != nil {
			return resp, err
		}

		batch, err := uc.repo.FindLegacy(ctx, batchSize)
		if err != nil {
			return resp, fmt.Errorf("find legacy decisions: %w", err)
		}
		resp.Scanned += len(batch)

		migratedInBatch := 0
		for _, decision := range batch {
			migrated := canonicalize(decision.Snapshot())
			if req.DryRun {
				resp.DecisionIDs = append(resp.DecisionIDs, decision.ID())
				continue
			}

			next := decision.ApplyMigration(migrated, MigrationSourceBatch, time.Now().UTC())
			if err := uc.repo.Save(ctx, next); err != nil {
				if errors.Is(err, model.ErrOptimisticLock) {
					uc.logger.WarnContext(ctx, "skipping decision modified during migration", "decision_id", decision.ID())
					resp.Skipped++
					continue
				}
				return resp, fmt.Errorf("save migrated decision %s: %w", decision.ID(), err)
			}
			uc.metrics.RecordMigration(ctx, MigrationSourceBatch)
			resp.Migrated++
			migratedInBatch++
			resp.DecisionIDs = append(resp.DecisionIDs, decision.ID())
		}

		if req.DryRun || len(batch) < batchSize || migratedInBatch == 0 {
			break
		}
	}

	uc.logger.InfoContext(ctx, "legacy migration finished",
		"scanned", resp.Scanned, "migrated", resp.Migrated, "skipped", resp.Skipped, "dry_run", resp.DryRun)
	return resp, nil
}

// canonicalize migrates a legacy record, or tags an untagged record whose
// list is already canonical by shape.
func canonicalize(raw model.RawDecision) model.RawDecision {
	migrated, changed := service.MigrateLegacy(raw)
	if !changed {
		migrated = raw.Clone()
		migrated.SchemaVersion = model.SchemaCanonical
	}
	return migrated
}
