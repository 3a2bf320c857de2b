package db

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"blogly/internal/model"
)

// Migrate registers the posts_tags junction on both sides of the many-to-many
// relation and creates the schema. With reset set, existing tables are dropped first.
func Migrate(db *gorm.DB, reset bool) error {
	if err := db.SetupJoinTable(&model.Post{}, "Tags", &model.PostTag{}); err != nil {
		return fmt.Errorf("setup post tags join table: %w", err)
	}
	if err := db.SetupJoinTable(&model.Tag{}, "Posts", &model.PostTag{}); err != nil {
		return fmt.Errorf("setup tag posts join table: %w", err)
	}

	if reset {
		slog.Warn("RESET_DB=true detected, dropping all tables")
		// Dependents first.
		tables := []interface{}{
			&model.PostTag{},
			&model.Post{},
			&model.Tag{},
			&model.User{},
		}
		for _, table := range tables {
			if err := db.Migrator().DropTable(table); err != nil {
				slog.Warn("failed to drop table (may not exist)", slog.Any("error", err))
			}
		}
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Tag{},
		&model.Post{},
		&model.PostTag{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
