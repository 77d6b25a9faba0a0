//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestPool starts a throwaway PostgreSQL container and opens a pool
// against it, verifying the read-only runtime parameter this package sets
// actually takes effect.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("orchestrator_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := NewPool(ctx, Config{URL: connStr})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestNewPool_ReadOnlyByDefault(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, "CREATE TABLE widgets (id int)")
	require.Error(t, err, "connections should be read-only by default")
}

func TestHealth_ReportsConnected(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	status, err := Health(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
	assert.Greater(t, status.MaxConns, int32(0))
}
