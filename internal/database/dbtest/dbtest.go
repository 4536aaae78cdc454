// Package dbtest starts a throwaway PostgreSQL container with the schema
// applied. It is only imported from integration tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/desiverse/api/internal/database"
	"github.com/stwalsh4118/desiverse/api/migrations"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// Image is the PostgreSQL image used by integration tests.
const Image = "postgres:16-alpine"

// Start runs a PostgreSQL container, applies the migrations and returns a
// connected Database. Container and pool are released by t.Cleanup.
func Start(ctx context.Context, t *testing.T) *database.Database {
	t.Helper()

	ctr, err := postgres.Run(ctx, Image,
		postgres.WithDatabase("heritage"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start postgres container")

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "container connection string")

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := database.Connect(connectCtx, dsn, 1, 4)
	require.NoError(t, err, "connect to container")
	t.Cleanup(db.Close)

	scripts, err := migrations.All()
	require.NoError(t, err)
	for _, s := range scripts {
		_, err := db.Pool.Exec(ctx, s.SQL)
		require.NoError(t, err, "apply migration %s", s.Name)
	}

	return db
}
