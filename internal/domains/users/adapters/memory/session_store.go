package memory

import (
	"context"
	"sync"
	"time"

	"github.com/crafty-aquatics/storefront/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

type session struct {
	token     string
	expiresAt time.Time
}

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	sessions sync.Map
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, userID, token string, expiresAt time.Time) error {
	s.sessions.Store(userID, session{token: token, expiresAt: expiresAt})
	return nil
}

func (s *SessionStore) Active(_ context.Context, userID, token string) (bool, error) {
	v, ok := s.sessions.Load(userID)
	if !ok {
		return false, nil
	}
	sess := v.(session)
	return sess.token == token && s.now().Before(sess.expiresAt), nil
}

func (s *SessionStore) Delete(_ context.Context, userID string) error {
	s.sessions.Delete(userID)
	return nil
}
