package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crafty-aquatics/storefront/internal/domains/users/adapters/repositorytest"
	"github.com/crafty-aquatics/storefront/internal/domains/users/ports"
	"github.com/crafty-aquatics/storefront/internal/platform/kvstore"
)

func TestRepository_Contract(t *testing.T) {
	repositorytest.Run(t, func(*testing.T) ports.Repository { return NewRepository(kvstore.NewMemory()) })
}

func TestSessionStore_Contract(t *testing.T) {
	repositorytest.RunSessions(t, func(*testing.T) ports.SessionStore { return NewSessionStore(kvstore.NewMemory()) })
}

func TestSessionStore_UsesSessionKey(t *testing.T) {
	store := kvstore.NewMemory()
	sessions := NewSessionStore(store)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, "u-1", "tok", time.Now().Add(time.Minute)))
	_, err := store.Get(ctx, "session:u-1")
	require.NoError(t, err)

	require.NoError(t, sessions.Delete(ctx, "u-1"))
	_, err = store.Get(ctx, "session:u-1")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}
