package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/dto"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/usecase"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/event"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	mock_port "github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port/mocks"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/service"
)

func TestMigrateLegacyDecisions_Execute(t *testing.T) {
	t.Run("migrates every legacy record in batches", func(t *testing.T) {
		var seed []model.UnderwritingDecision
		for i := 0; i < 5; i++ {
			seed = append(seed, mustReconstruct(legacyRecord(fmt.Sprintf("d%d", i), ""), 1))
		}
		repo := newMockDecisionRepository(seed...)
		uc := usecase.NewMigrateLegacyDecisionsUseCase(repo, nil, discardLogger())

		resp, err := uc.Execute(context.Background(), dto.MigrateLegacyRequest{BatchSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, resp.Migrated)
		assert.Equal(t, 5, resp.Scanned)
		assert.Len(t, resp.DecisionIDs, 5)

		for _, saved := range repo.saved {
			evts := saved.DomainEvents()
			require.Len(t, evts, 1)
			assert.Equal(t, event.TypeApprovalsMigrated, evts[0].EventType())
		}
		for id, d := range repo.decisions {
			raw := d.Snapshot()
			assert.Equal(t, model.SchemaCanonical, raw.SchemaVersion, id)
			assert.Equal(t, service.Reconcile(legacyRecord(id, "")), service.Reconcile(raw), id)
		}
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		repo := newMockDecisionRepository(mustReconstruct(legacyRecord("d1", ""), 1))
		uc := usecase.NewMigrateLegacyDecisionsUseCase(repo, nil, discardLogger())

		_, err := uc.Execute(context.Background(), dto.MigrateLegacyRequest{})
		require.NoError(t, err)
		resp, err := uc.Execute(context.Background(), dto.MigrateLegacyRequest{})
		require.NoError(t, err)
		assert.Zero(t, resp.Scanned)
		assert.Zero(t, resp.Migrated)
	})

	t.Run("untagged canonical list is only tagged", func(t *testing.T) {
		raw := model.RawDecision{
			ID:                  "c1",
			Status:              "approved",
			AdditionalApprovals: model.ApprovalsDocument(`[{"id":"p","lender":"Y","isPrimary":true}]`),
		}
		repo := newMockDecisionRepository(mustReconstruct(raw, 1))
		uc := usecase.NewMigrateLegacyDecisionsUseCase(repo, nil, discardLogger())

		_, err := uc.Execute(context.Background(), dto.MigrateLegacyRequest{})
		require.NoError(t, err)
		stored := repo.decisions["c1"].Snapshot()
		assert.Equal(t, model.SchemaCanonical, stored.SchemaVersion)
		assert.JSONEq(t, string(raw.AdditionalApprovals), string(stored.AdditionalApprovals))
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mock_port.NewMockDecisionRepository(ctrl)
		repo.EXPECT().FindLegacy(gomock.Any(), 100).Return([]model.UnderwritingDecision{
			mustReconstruct(legacyRecord("d1", ""), 1),
			mustReconstruct(legacyRecord("d2", ""), 1),
		}, nil)

		uc := usecase.NewMigrateLegacyDecisionsUseCase(repo, nil, discardLogger())
		resp, err := uc.Execute(context.Background(), dto.MigrateLegacyRequest{DryRun: true})
		require.NoError(t, err)
		assert.True(t, resp.DryRun)
		assert.Equal(t, 2, resp.Scanned)
		assert.Zero(t, resp.Migrated)
		assert.Equal(t, []string{"d1", "d2"}, resp.DecisionIDs)
	})

	t.Run("optimistic lock conflicts are skipped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mock_port.NewMockDecisionRepository(ctrl)
		repo.EXPECT().FindLegacy(gomock.Any(), 10).Return([]model.UnderwritingDecision{
			mustReconstruct(legacyRecord("d1", ""), 1),
			mustReconstruct(legacyRecord("d2", ""), 1),
		}, nil)
		gomock.InOrder(
			repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(fmt.Errorf("save: %w", model.ErrOptimisticLock)),
			repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
		)

		uc := usecase.NewMigrateLegacyDecisionsUseCase(repo, nil, discardLogger())
		resp, err := uc.Execute(context.Background(), dto.MigrateLegacyRequest{BatchSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Skipped)
		assert.Equal(t, 1, resp.Migrated)
		assert.Equal(t, []string{"d2"}, resp.DecisionIDs)
	})

	t.Run("repository failure aborts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mock_port.NewMockDecisionRepository(ctrl)
		repo.EXPECT().FindLegacy(gomock.Any(), 100).Return(nil, errors.New("db down"))

		uc := usecase.NewMigrateLegacyDecisionsUseCase(repo, nil, discardLogger())
		_, err := uc.Execute(context.Background(), dto.MigrateLegacyRequest{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "find legacy decisions")
	})
}
