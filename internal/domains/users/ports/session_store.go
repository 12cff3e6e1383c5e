package ports

import (
	"context"
	"time"
)

// SessionStore tracks which tokens are still logged in. One session per user.
type SessionStore interface {
	Save(ctx context.Context, userID, token string, expiresAt time.Time) error
	Active(ctx context.Context, userID, token string) (bool, error)
	Delete(ctx context.Context, userID string) error
}

// NoopSessionStore accepts every token. Used when callers do not need logout semantics.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(context.Context, string, string, time.Time) error { return nil }
func (noopSessionStore) Active(context.Context, string, string) (bool, error)  { return true, nil }
func (noopSessionStore) Delete(context.Context, string) error                  { return nil }
