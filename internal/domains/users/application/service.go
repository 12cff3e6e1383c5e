package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crafty-aquatics/storefront/internal/domains/users/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/users/ports"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
	tokens   ports.TokenIssuer
	now      func() time.Time
	newID    func() string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, tokens ports.TokenIssuer, opts ...Option) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	s := &Service{repo: repo, sessions: sessions, tokens: tokens, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register creates a customer account.
func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.create(ctx, input, domain.RoleUser)
}

func (s *Service) create(ctx context.Context, input ports.RegisterInput, role domain.Role) (*domain.User, error) {
	user, err := domain.NewUser(s.newID(), input.Name, input.Email, input.Password, role)
	if err != nil {
		return nil, mapError(err)
	}
	user.CreatedAt = s.now().UTC()
	if _, err := s.repo.GetByEmail(ctx, user.Email); err == nil {
		return nil, ports.ErrEmailTaken
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	return s.repo.Create(ctx, user)
}

// Login checks credentials, issues a token and records the session.
func (s *Service) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	if s.tokens == nil {
		return nil, errors.New("token issuer not configured")
	}
	token, expiresAt, err := s.tokens.Issue(user.Actor(), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, user.ID, token, expiresAt); err != nil {
		return nil, err
	}
	return &ports.Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *Service) Logout(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	return s.sessions.Delete(ctx, userID)
}

// Authenticate resolves a bearer token to an actor. The token must verify and its session must still exist.
func (s *Service) Authenticate(ctx context.Context, token string) (domain.Actor, error) {
	token = strings.TrimSpace(token)
	if token == "" || s.tokens == nil {
		return domain.Actor{}, mapError(ports.ErrUnauthenticated)
	}
	actor, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Actor{}, mapError(err)
	}
	active, err := s.sessions.Active(ctx, actor.ID, token)
	if err != nil {
		return domain.Actor{}, err
	}
	if !active {
		return domain.Actor{}, mapError(ports.ErrUnauthenticated)
	}
	return actor, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// Seed creates the demo admin and customer accounts when no user exists yet.
func (s *Service) Seed(ctx context.Context) error {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, account := range DemoAccounts() {
		if _, err := s.create(ctx, account.Input, account.Role); err != nil {
			return err
		}
	}
	return nil
}

// DemoAccount is one seeded login.
type DemoAccount struct {
	Input ports.RegisterInput
	Role  domain.Role
}

// DemoAccounts lists the accounts created by Seed.
func DemoAccounts() []DemoAccount {
	return []DemoAccount{
		{Input: ports.RegisterInput{Name: "Admin User", Email: "admin@aquastore.com", Password: "admin123"}, Role: domain.RoleAdmin},
		{Input: ports.RegisterInput{Name: "Regular User", Email: "user@aquastore.com", Password: "user123"}, Role: domain.RoleUser},
	}
}

var _ ports.Service = (*Service)(nil)
