package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteParams enables foreign keys, waits on locks instead of failing fast and
// takes the write lock at BEGIN so two units of work never interleave writes.
const sqliteParams = "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"

// NewSQLite opens (or creates) a SQLite database file.
func NewSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?%s", path, sqliteParams)), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	return db, nil
}
