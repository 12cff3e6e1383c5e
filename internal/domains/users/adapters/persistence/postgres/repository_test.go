package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/crafty-aquatics/storefront/internal/domains/users/adapters/repositorytest"
	"github.com/crafty-aquatics/storefront/internal/domains/users/ports"
	pgplatform "github.com/crafty-aquatics/storefront/internal/platform/postgres"
	"github.com/crafty-aquatics/storefront/internal/platform/sqlite"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "users.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { pgplatform.Close(db) })
	require.NoError(t, db.AutoMigrate(&userRecord{}, &sessionRecord{}))
	return db
}

func TestRepository_ContractOnSQLite(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) ports.Repository { return NewRepository(openSQLite(t)) })
}

func TestSessionStore_ContractOnSQLite(t *testing.T) {
	repositorytest.RunSessions(t, func(t *testing.T) ports.SessionStore { return NewSessionStore(openSQLite(t), time.Hour) })
}

func TestSessionStore_CapsExpiryAndPurges(t *testing.T) {
	db := openSQLite(t)
	store := NewSessionStore(db, time.Hour)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "u-1", "tok-1", now.Add(48*time.Hour)))
	require.NoError(t, store.Save(ctx, "u-2", "tok-2", now.Add(30*time.Minute)))

	var rec sessionRecord
	require.NoError(t, db.First(&rec, "user_id = ?", "u-1").Error)
	assert.WithinDuration(t, now.Add(time.Hour), rec.ExpiresAt, time.Second)

	now = now.Add(45 * time.Minute)
	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	active, err := store.Active(ctx, "u-1", "tok-1")
	require.NoError(t, err)
	assert.True(t, active)
}
