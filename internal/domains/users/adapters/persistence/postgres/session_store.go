package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	userports "github.com/crafty-aquatics/storefront/internal/domains/users/ports"
)

// SessionStore persists login sessions in a relational database.
type SessionStore struct {
	db       *gorm.DB
	sessionT time.Duration
	now      func() time.Time
}

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// NewSessionStore wires a GORM-backed session store. Caller owns DB lifecycle.
// A session expires at the earlier of the token expiry and now+sessionTTL.
func NewSessionStore(db *gorm.DB, sessionTTL time.Duration) *SessionStore {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &SessionStore{db: db, sessionT: sessionTTL, now: time.Now}
}

type sessionRecord struct {
	Token     string    `gorm:"primaryKey;column:token;size:1024"`
	UserID    string    `gorm:"column:user_id;size:64;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Save replaces any previous session of userID.
func (s *SessionStore) Save(ctx context.Context, userID, token string, expiresAt time.Time) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	token = strings.TrimSpace(token)
	if userID == "" || token == "" {
		return errors.New("user id and token are required")
	}
	if limit := s.now().Add(s.sessionT); expiresAt.IsZero() || expiresAt.After(limit) {
		expiresAt = limit
	}
	rec := sessionRecord{UserID: userID, Token: token, ExpiresAt: expiresAt.UTC()}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&sessionRecord{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
}

// Active reports whether token is the live session of userID.
func (s *SessionStore) Active(ctx context.Context, userID, token string) (bool, error) {
	if err := s.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&sessionRecord{}).
		Where("token = ? AND user_id = ? AND expires_at > ?", token, userID, s.now().UTC()).
		Count(&count).Error
	return count > 0, err
}

// Delete removes the session of userID.
func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "user_id = ?", userID).Error
}

// PurgeExpired removes all expired sessions and reports how many were dropped.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now().UTC()).Delete(&sessionRecord{})
	return res.RowsAffected, res.Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("session store not configured")
	}
	return nil
}

var _ userports.SessionStore = (*SessionStore)(nil)
