package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes for transactions the server aborted because of a
// concurrent writer.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// ErrWriteConflict marks a transaction that lost a race with another
// writer. Callers map it to their own conflict error.
var ErrWriteConflict = errors.New("postgres: concurrent write conflict")

// Querier is the statement surface shared by a pool and a transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTransaction runs fn in one transaction, committing on success.
// Serialization failures and deadlocks from fn or the commit come back
// wrapped with ErrWriteConflict as well as the driver error.
func WithTransaction(ctx context.Context, db TxBeginner, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("postgres: rollback tx: %w (original error: %w)", rbErr, classify(err))
		}
		return classify(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return classify(fmt.Errorf("postgres: commit tx: %w", err))
	}
	return nil
}

// IsWriteConflict reports whether err is a serialization failure or a
// deadlock reported by the server.
func IsWriteConflict(err error) bool {
	if errors.Is(err, ErrWriteConflict) {
		return true
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
}

func classify(err error) error {
	if err == nil || errors.Is(err, ErrWriteConflict) || !IsWriteConflict(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrWriteConflict, err)
}
