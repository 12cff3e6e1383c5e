package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crafty-aquatics/storefront/internal/domains/users/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/users/ports"
)

func TestJWT_RoundTrip(t *testing.T) {
	issuerJWT, err := NewJWT("secret", time.Hour)
	require.NoError(t, err)

	now := time.Now()
	tok, exp, err := issuerJWT.Issue(domain.Actor{ID: "u-1", Role: domain.RoleAdmin}, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	actor, err := issuerJWT.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{ID: "u-1", Role: domain.RoleAdmin}, actor)
}

func TestJWT_Rejects(t *testing.T) {
	good, err := NewJWT("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewJWT("other", time.Hour)
	require.NoError(t, err)

	tok, _, err := other.Issue(domain.Actor{ID: "u-1", Role: domain.RoleUser}, time.Now())
	require.NoError(t, err)
	_, err = good.Verify(tok)
	require.ErrorIs(t, err, ports.ErrUnauthenticated)

	expired, _, err := good.Issue(domain.Actor{ID: "u-1", Role: domain.RoleUser}, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = good.Verify(expired)
	require.ErrorIs(t, err, ports.ErrUnauthenticated)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u-1", "role": "admin"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = good.Verify(unsigned)
	require.ErrorIs(t, err, ports.ErrUnauthenticated)

	_, err = NewJWT("", time.Hour)
	require.Error(t, err)
}
