package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/crafty-aquatics/storefront/internal/domains/users/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/users/ports"
)

var _ ports.TokenIssuer = (*JWT)(nil)

// DefaultTTL is the token lifetime when none is configured.
const DefaultTTL = 24 * time.Hour

const issuer = "crafty-aquatics"

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWT issues HS256 tokens carrying the user id and role.
type JWT struct {
	secret []byte
	ttl    time.Duration
}

func NewJWT(secret string, ttl time.Duration) (*JWT, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{secret: []byte(secret), ttl: ttl}, nil
}

func (j *JWT) Issue(actor domain.Actor, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(j.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := tok.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature, algorithm and expiry and returns the actor.
func (j *JWT) Verify(raw string) (domain.Actor, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %w", ports.ErrUnauthenticated, err)
	}
	role := domain.Role(c.Role)
	if c.Subject == "" || !role.Valid() {
		return domain.Actor{}, ports.ErrUnauthenticated
	}
	return domain.Actor{ID: c.Subject, Role: role}, nil
}
