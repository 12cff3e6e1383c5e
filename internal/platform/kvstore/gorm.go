package kvstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ Store = (*GormStore)(nil)

// GormStore keeps entries in a relational table. It runs on PostgreSQL and SQLite alike.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wires a GORM-backed store. Caller manages DB lifecycle and schema (see migrations.Run).
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

type entryRecord struct {
	Key       string    `gorm:"primaryKey;column:entry_key;size:255"`
	Value     []byte    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (entryRecord) TableName() string { return "kv_entries" }

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record entryRecord
	if err := s.db.WithContext(ctx).First(&record, "entry_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record.Value, nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	record := entryRecord{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&record).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&entryRecord{}, "entry_key = ?", key).Error
}

func (s *GormStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("gorm kv store not configured")
	}
	return nil
}
