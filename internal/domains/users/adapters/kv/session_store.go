package kv

import (
	"context"
	"time"

	"github.com/crafty-aquatics/storefront/internal/domains/users/ports"
	"github.com/crafty-aquatics/storefront/internal/platform/kvstore"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore writes one session document per user under kvstore.SessionKey.
type SessionStore struct {
	store kvstore.Store
	now   func() time.Time
}

func NewSessionStore(store kvstore.Store) *SessionStore {
	return &SessionStore{store: store, now: time.Now}
}

type sessionDocument struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *SessionStore) Save(ctx context.Context, userID, token string, expiresAt time.Time) error {
	return kvstore.SetJSON(ctx, s.store, kvstore.SessionKey(userID), sessionDocument{Token: token, ExpiresAt: expiresAt.UTC()})
}

func (s *SessionStore) Active(ctx context.Context, userID, token string) (bool, error) {
	var doc sessionDocument
	found, err := kvstore.GetJSON(ctx, s.store, kvstore.SessionKey(userID), &doc)
	if err != nil || !found {
		return false, err
	}
	return doc.Token == token && s.now().Before(doc.ExpiresAt), nil
}

func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, kvstore.SessionKey(userID))
}
