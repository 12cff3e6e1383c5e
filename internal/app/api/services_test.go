package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	usersdomain "github.com/crafty-aquatics/storefront/internal/domains/users/domain"
	"github.com/crafty-aquatics/storefront/internal/shared/events"
)

func TestBuildServices_SeedsOnceAndPublishes(t *testing.T) {
	usersdomain.HashCost = bcrypt.MinCost
	ctx := context.Background()
	recorder := &events.Recorder{}
	cfg := Config{JWTSecret: "test", JWTTTL: time.Hour, ReserveStock: true}

	services, err := BuildServices(cfg, memoryStorage(), nil, recorder)
	require.NoError(t, err)
	require.NoError(t, services.Seed(ctx))
	require.NoError(t, services.Seed(ctx))

	products, err := services.Catalog.ListProducts(ctx, catalogdomain.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, products, 4)
	users, err := services.Users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	created := 0
	for _, name := range recorder.Names() {
		if name == "catalog.product.created" {
			created++
		}
	}
	assert.Equal(t, 4, created)

	session, err := services.Users.Login(ctx, "admin@aquastore.com", "admin123")
	require.NoError(t, err)
	actor, err := services.Users.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.True(t, actor.IsAdmin())
}

func TestBuildServices_RequiresStorage(t *testing.T) {
	_, err := BuildServices(Config{JWTSecret: "test", JWTTTL: time.Hour}, nil, nil, nil)
	require.Error(t, err)
}
