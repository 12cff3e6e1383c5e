package postgres

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/repositorytest"
	"github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
	pgplatform "github.com/crafty-aquatics/storefront/internal/platform/postgres"
	"github.com/crafty-aquatics/storefront/internal/platform/sqlite"
)

func TestRepository_ContractOnSQLite(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) ports.Repository {
		db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"), 0)
		require.NoError(t, err)
		t.Cleanup(func() { pgplatform.Close(db) })
		require.NoError(t, db.AutoMigrate(&productRecord{}, &reservationRecord{}))
		return NewRepository(db)
	})
}
