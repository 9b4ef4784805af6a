package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	DSN       string
	Pool      *pgxpool.Pool
}

// NewPostgresContainer starts a PostgreSQL container and registers its
// teardown with t.Cleanup.
func NewPostgresContainer(ctx context.Context, t *testing.T) *PostgresContainer {
	t.Helper()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("underwriting_test"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create pgxpool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping postgres: %v", err)
	}

	pc := &PostgresContainer{Container: pgContainer, DSN: dsn, Pool: pool}
	t.Cleanup(func() { pc.cleanup(t) })
	return pc
}

// Migrate applies the golang-migrate files in dir (a filesystem path).
func (pc *PostgresContainer) Migrate(t *testing.T, dir string) {
	t.Helper()

	abs, err := filepath.Abs(dir)
	if err != nil {
		t.Fatalf("failed to resolve migrations dir %s: %v", dir, err)
	}
	if err := postgres.RunMigrations(pc.DSN, "file://"+abs); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
}

func (pc *PostgresContainer) cleanup(t *testing.T) {
	t.Helper()

	if pc.Pool != nil {
		pc.Pool.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pc.Container.Terminate(ctx); err != nil {
		t.Logf("warning: failed to terminate postgres container: %v", err)
	}
}
