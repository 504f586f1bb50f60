package database

import (
	"log"
	"os"
	"path/filepath"

	"edutech_backend/internal/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitSQLite opens the local snapshot database. The file lives on the
// user's machine, next to the rest of the profile data.
func InitSQLite(cfg *config.SnapshotConfig) (*gorm.DB, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = "data/edutech.db"
	}

	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Snapshot database opened")
	return db, nil
}
