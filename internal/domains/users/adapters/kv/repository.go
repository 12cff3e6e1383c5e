package kv

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/crafty-aquatics/storefront/internal/domains/users/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/users/ports"
	"github.com/crafty-aquatics/storefront/internal/platform/kvstore"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps every account in one JSON document under kvstore.KeyUsers.
type Repository struct {
	mu    sync.Mutex
	store kvstore.Store
}

func NewRepository(store kvstore.Store) *Repository {
	return &Repository{store: store}
}

type userDocument struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.Email == user.Email {
			return nil, ports.ErrEmailTaken
		}
		if d.ID == user.ID {
			return nil, errors.New("user id already exists")
		}
	}
	docs = append(docs, toDocument(user))
	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyUsers, docs); err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.find(ctx, func(d userDocument) bool { return d.ID == id })
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	return r.find(ctx, func(d userDocument) bool { return d.Email == email })
}

func (r *Repository) List(ctx context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	docs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *Repository) find(ctx context.Context, match func(userDocument) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	docs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if match(d) {
			return d.toDomain(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) load(ctx context.Context) ([]userDocument, error) {
	var docs []userDocument
	if _, err := kvstore.GetJSON(ctx, r.store, kvstore.KeyUsers, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func toDocument(u *domain.User) userDocument {
	return userDocument{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		Role:         domain.Role(d.Role),
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}
