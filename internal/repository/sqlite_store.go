package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"edutech_backend/internal/model"
	"edutech_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// snapshotRow is the single-row table behind the SQLite backend. The user
// record stays an opaque JSON blob; SQLite only provides the durable file.
type snapshotRow struct {
	Key       string `gorm:"primaryKey;size:64"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (snapshotRow) TableName() string {
	return "snapshots"
}

type SQLiteStore struct {
	db  *gorm.DB
	key string
}

func NewSQLiteStore(db *gorm.DB, key string) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&snapshotRow{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, key: key}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*model.User, error) {
	var row snapshotRow
	err := s.db.WithContext(ctx).First(&row, "key = ?", s.key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSnapshotNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(row.Data, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrSnapshotCorrupt, err)
	}
	return &user, nil
}

func (s *SQLiteStore) Save(ctx context.Context, user *model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrSnapshotWrite, err)
	}

	row := snapshotRow{Key: s.key, Data: raw, UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrSnapshotWrite, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Delete(&snapshotRow{}, "key = ?", s.key).Error
}
