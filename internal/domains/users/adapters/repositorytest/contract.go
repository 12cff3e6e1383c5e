// Package repositorytest holds behaviour every user repository and session store must share.
package repositorytest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/crafty-aquatics/storefront/internal/domains/users/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/users/ports"
)

func newUser(t *testing.T, id, email string, role domain.Role) *domain.User {
	t.Helper()
	domain.HashCost = bcrypt.MinCost
	user, err := domain.NewUser(id, "User "+id, email, "secret", role)
	require.NoError(t, err)
	user.CreatedAt = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return user
}

// Run exercises a fresh repository from build for every subtest.
func Run(t *testing.T, build func(t *testing.T) ports.Repository) {
	t.Run("create and fetch", func(t *testing.T) {
		repo := build(t)
		ctx := context.Background()
		created, err := repo.Create(ctx, newUser(t, "u-1", "asha@example.com", domain.RoleAdmin))
		require.NoError(t, err)

		byID, err := repo.GetByID(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, created.Email, byID.Email)
		assert.Equal(t, domain.RoleAdmin, byID.Role)
		assert.True(t, byID.CheckPassword("secret"))

		byEmail, err := repo.GetByEmail(ctx, " ASHA@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u-1", byEmail.ID)

		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, ports.ErrNotFound)
		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, ports.ErrNotFound)
	})

	t.Run("email is unique", func(t *testing.T) {
		repo := build(t)
		ctx := context.Background()
		_, err := repo.Create(ctx, newUser(t, "u-1", "asha@example.com", domain.RoleUser))
		require.NoError(t, err)
		_, err = repo.Create(ctx, newUser(t, "u-2", "asha@example.com", domain.RoleUser))
		require.ErrorIs(t, err, ports.ErrEmailTaken)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("list keeps registration order", func(t *testing.T) {
		repo := build(t)
		ctx := context.Background()
		for i := 3; i >= 1; i-- {
			_, err := repo.Create(ctx, newUser(t, fmt.Sprintf("u-%d", i), fmt.Sprintf("u%d@example.com", i), domain.RoleUser))
			require.NoError(t, err)
		}
		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"u-3", "u-2", "u-1"}, []string{all[0].ID, all[1].ID, all[2].ID})
	})
}

// RunSessions exercises a fresh session store from build for every subtest.
func RunSessions(t *testing.T, build func(t *testing.T) ports.SessionStore) {
	t.Run("save replaces and delete logs out", func(t *testing.T) {
		store := build(t)
		ctx := context.Background()
		exp := time.Now().Add(time.Hour)

		require.NoError(t, store.Save(ctx, "u-1", "token-a", exp))
		active, err := store.Active(ctx, "u-1", "token-a")
		require.NoError(t, err)
		assert.True(t, active)

		require.NoError(t, store.Save(ctx, "u-1", "token-b", exp))
		active, err = store.Active(ctx, "u-1", "token-a")
		require.NoError(t, err)
		assert.False(t, active)

		active, err = store.Active(ctx, "u-2", "token-b")
		require.NoError(t, err)
		assert.False(t, active)

		require.NoError(t, store.Delete(ctx, "u-1"))
		active, err = store.Active(ctx, "u-1", "token-b")
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("expired sessions are inactive", func(t *testing.T) {
		store := build(t)
		ctx := context.Background()
		require.NoError(t, store.Save(ctx, "u-1", "token-a", time.Now().Add(-time.Minute)))
		active, err := store.Active(ctx, "u-1", "token-a")
		require.NoError(t, err)
		assert.False(t, active)
	})
}
