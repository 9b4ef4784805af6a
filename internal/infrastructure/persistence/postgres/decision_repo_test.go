package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/valueobject"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/infrastructure/persistence/postgres"
	pkgpostgres "github.com/trevorb11/CapitalLoanConnect-sub004/pkg/postgres"
)

type stubTx struct {
	pgx.Tx
	execErr    error
	rolledBack bool
}

func (s *stubTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, s.execErr
}

func (s *stubTx) Commit(context.Context) error { return nil }

func (s *stubTx) Rollback(context.Context) error {
	s.rolledBack = true
	return nil
}

type stubDB struct {
	pkgpostgres.Querier
	tx *stubTx
}

func (s *stubDB) Begin(context.Context) (pgx.Tx, error) { return s.tx, nil }

func TestDecisionRepo_Save_WriteConflicts(t *testing.T) {
	d, err := model.NewUnderwritingDecision("Acme", "", valueobject.DecisionStatusApproved, nil,
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	t.Run("serialization failure is an optimistic lock conflict", func(t *testing.T) {
		db := &stubDB{tx: &stubTx{execErr: &pgconn.PgError{Code: "40001"}}}
		err := postgres.NewDecisionRepo(db).Save(context.Background(), d)
		assert.ErrorIs(t, err, model.ErrOptimisticLock)
		assert.ErrorIs(t, err, pkgpostgres.ErrWriteConflict)
		assert.True(t, db.tx.rolledBack)
	})

	t.Run("deadlock is an optimistic lock conflict", func(t *testing.T) {
		db := &stubDB{tx: &stubTx{execErr: &pgconn.PgError{Code: "40P01"}}}
		err := postgres.NewDecisionRepo(db).Save(context.Background(), d)
		assert.ErrorIs(t, err, model.ErrOptimisticLock)
	})

	t.Run("other failures pass through", func(t *testing.T) {
		boom := errors.New("connection reset")
		db := &stubDB{tx: &stubTx{execErr: boom}}
		err := postgres.NewDecisionRepo(db).Save(context.Background(), d)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, model.ErrOptimisticLock)
	})
}
