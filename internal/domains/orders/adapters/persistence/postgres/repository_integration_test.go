//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/crafty-aquatics/storefront/internal/domains/orders/adapters/repositorytest"
	"github.com/crafty-aquatics/storefront/internal/domains/orders/ports"
	"github.com/crafty-aquatics/storefront/internal/platform/migrations"
	pgplatform "github.com/crafty-aquatics/storefront/internal/platform/postgres"
)

func TestRepository_ContractOnPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	defer func() { _ = pgContainer.Terminate(ctx) }()

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := pgplatform.Connect(ctx, dsn, 10*time.Second)
	require.NoError(t, err)
	defer pgplatform.Close(db)
	require.NoError(t, migrations.Run(db))

	repositorytest.Run(t, func(t *testing.T) ports.Repository {
		require.NoError(t, db.Exec("DELETE FROM orders").Error)
		return NewRepository(db)
	})
}
