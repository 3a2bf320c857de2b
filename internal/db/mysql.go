package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

func gormConfig() *gorm.Config {
	// TranslateError turns unique and foreign key violations into gorm sentinels
	// so callers do not have to know which driver is underneath.
	return &gorm.Config{TranslateError: true}
}
