package db

import (
	"fmt"

	"gorm.io/gorm"

	"blogly/internal/config"
)

// Open connects to the store selected by cfg.DBDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return NewMySQL(cfg.MySQLDSN)
	case config.DriverSQLite:
		return NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
