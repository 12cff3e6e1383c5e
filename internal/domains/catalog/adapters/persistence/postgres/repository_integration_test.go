//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/repositorytest"
	"github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
	"github.com/crafty-aquatics/storefront/internal/platform/migrations"
	pgplatform "github.com/crafty-aquatics/storefront/internal/platform/postgres"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := pgplatform.Connect(ctx, dsn, 10*time.Second)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		pgplatform.Close(db)
		_ = pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func TestRepository_ContractOnPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repositorytest.Run(t, func(t *testing.T) ports.Repository {
		require.NoError(t, db.Exec("DELETE FROM products").Error)
		return NewRepository(db)
	})
}

func TestRepository_ConcurrentReservationsNeverOversell(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	product, err := domain.NewProduct("p-1", "Neon Tetra", "", decimal.NewFromInt(225), "", domain.CategoryFish, 5, "")
	require.NoError(t, err)
	_, err = repo.Create(ctx, product)
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := repo.Reserve(ctx, "", []domain.StockReservation{{ProductID: "p-1", Quantity: 1}}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, successes)
	fetched, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 0, fetched.Stock)
}
