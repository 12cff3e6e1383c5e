package ports

import (
	"context"
	"errors"
	"time"

	"github.com/crafty-aquatics/storefront/internal/domains/users/domain"
)

// ErrUnauthenticated is returned when a token is missing, invalid, expired or logged out.
var ErrUnauthenticated = errors.New("not authenticated")

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Session is a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// TokenIssuer signs and verifies login tokens.
type TokenIssuer interface {
	Issue(actor domain.Actor, now time.Time) (token string, expiresAt time.Time, err error)
	Verify(token string) (domain.Actor, error)
}

// Service exposes user bounded context use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, userID string) error
	Authenticate(ctx context.Context, token string) (domain.Actor, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	Seed(ctx context.Context) error
}
