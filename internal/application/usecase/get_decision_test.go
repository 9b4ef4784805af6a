package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/dto"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/usecase"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
	mock_port "github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port/mocks"
)

func TestGetDecision_Execute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name       string
		stored     model.UnderwritingDecision
		findErr    error
		wantErr    error
		wantIDs    []string
		wantBest   string
		wantRecent time.Time
	}{
		{
			name:       "legacy record is reconciled at read time",
			stored:     mustReconstruct(legacyRecord("d1", "2024-03-01"), 3),
			wantIDs:    []string{"primary-d1", "migrated-0"},
			wantBest:   "primary-d1",
			wantRecent: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "canonical record is returned as stored",
			stored: mustReconstruct(model.RawDecision{
				ID:                  "d2",
				Status:              "pending",
				AdditionalApprovals: model.ApprovalsDocument(`[{"id":"a","isPrimary":false},{"id":"b","isPrimary":true}]`),
				SchemaVersion:       model.SchemaCanonical,
				CreatedAt:           time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			}, 1),
			wantIDs:    []string{"b", "a"},
			wantBest:   "b",
			wantRecent: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "not found",
			findErr: model.ErrDecisionNotFound,
			wantErr: model.ErrDecisionNotFound,
		},
		{
			name:    "repository failure",
			findErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock_port.NewMockDecisionRepository(ctrl)
			id := tt.stored.ID()
			if id == "" {
				id = "unknown"
			}
			repo.EXPECT().FindByID(gomock.Any(), id).Return(tt.stored, tt.findErr)

			uc := usecase.NewGetDecisionUseCase(repo, nil)
			resp, err := uc.Execute(context.Background(), dto.GetDecisionRequest{ID: id})

			if tt.findErr != nil {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)

			ids := make([]string, len(resp.Approvals))
			for i, a := range resp.Approvals {
				ids[i] = a.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
			require.NotNil(t, resp.BestApproval)
			assert.Equal(t, tt.wantBest, resp.BestApproval.ID)
			assert.Len(t, resp.OtherApprovals, len(tt.wantIDs)-1)
			assert.True(t, tt.wantRecent.Equal(resp.MostRecentApprovalAt), resp.MostRecentApprovalAt)
			assert.Equal(t, tt.stored.Version(), resp.Version)
		})
	}
}

func TestListDecisions_Execute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	older := mustReconstruct(legacyRecord("older", "2024-01-01"), 1)
	newer := mustReconstruct(legacyRecord("newer", "2024-06-01"), 1)
	undated := mustReconstruct(legacyRecord("undated", ""), 1)

	t.Run("sorts newest approval first", func(t *testing.T) {
		repo := mock_port.NewMockDecisionRepository(ctrl)
		repo.EXPECT().
			List(gomock.Any(), port.ListFilter{Limit: 10}).
			Return([]model.UnderwritingDecision{older, undated, newer}, nil)

		uc := usecase.NewListDecisionsUseCase(repo, nil)
		resp, err := uc.Execute(context.Background(), dto.ListDecisionsRequest{Limit: 10})
		require.NoError(t, err)

		ids := make([]string, len(resp.Decisions))
		for i, d := range resp.Decisions {
			ids[i] = d.ID
		}
		assert.Equal(t, []string{"newer", "older", "undated"}, ids)
	})

	t.Run("normalises status filter", func(t *testing.T) {
		repo := mock_port.NewMockDecisionRepository(ctrl)
		repo.EXPECT().
			List(gomock.Any(), port.ListFilter{Status: "funded"}).
			Return(nil, nil)

		uc := usecase.NewListDecisionsUseCase(repo, nil)
		resp, err := uc.Execute(context.Background(), dto.ListDecisionsRequest{Status: " Funded "})
		require.NoError(t, err)
		assert.Empty(t, resp.Decisions)
	})

	t.Run("limited page keeps the most recently approved", func(t *testing.T) {
		created := func(id, approvalDate string, createdAt time.Time) model.UnderwritingDecision {
			raw := legacyRecord(id, approvalDate)
			raw.AdditionalApprovals = nil
			raw.CreatedAt = createdAt
			return mustReconstruct(raw, 1)
		}
		repo := newMockDecisionRepository(
			created("long-standing", "2024-09-01", time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)),
			created("recent-a", "2024-02-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			created("recent-b", "2024-03-01", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		)

		uc := usecase.NewListDecisionsUseCase(repo, nil)
		resp, err := uc.Execute(context.Background(), dto.ListDecisionsRequest{Limit: 2})
		require.NoError(t, err)

		ids := make([]string, len(resp.Decisions))
		for i, d := range resp.Decisions {
			ids[i] = d.ID
		}
		assert.Equal(t, []string{"long-standing", "recent-b"}, ids)
	})

	t.Run("rejects unknown status filter", func(t *testing.T) {
		repo := mock_port.NewMockDecisionRepository(ctrl)
		uc := usecase.NewListDecisionsUseCase(repo, nil)
		_, err := uc.Execute(context.Background(), dto.ListDecisionsRequest{Status: "closed"})
		assert.Error(t, err)
	})
}
