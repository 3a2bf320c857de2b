// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"blogly/internal/db"
	"blogly/internal/model"
)

// NewDB opens a migrated SQLite database in a per-test temporary directory.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.NewSQLite(filepath.Join(t.TempDir(), "blogly.db"))
	if err != nil {
		t.Fatalf("NewSQLite() failed: %v", err)
	}
	if err := db.Migrate(gdb, false); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// CreateUser inserts a user directly.
func CreateUser(t *testing.T, gdb *gorm.DB, first, last string) *model.User {
	t.Helper()
	user := &model.User{FirstName: first, LastName: last}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreatePost inserts a post owned by userID with the given tags attached.
func CreatePost(t *testing.T, gdb *gorm.DB, userID uint, title string, tagIDs ...uint) *model.Post {
	t.Helper()
	post := &model.Post{UserID: userID, Title: title, Content: title + " body"}
	if err := gdb.Omit("Tags", "User").Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	for _, tagID := range tagIDs {
		if err := gdb.Create(&model.PostTag{PostID: post.ID, TagID: tagID}).Error; err != nil {
			t.Fatalf("attach tag %d: %v", tagID, err)
		}
	}
	return post
}

// CreateTag inserts a tag directly.
func CreateTag(t *testing.T, gdb *gorm.DB, name string) *model.Tag {
	t.Helper()
	tag := &model.Tag{Name: name}
	if err := gdb.Create(tag).Error; err != nil {
		t.Fatalf("create tag: %v", err)
	}
	return tag
}

// JunctionRows returns every posts_tags row ordered by (post_id, tag_id).
func JunctionRows(t *testing.T, gdb *gorm.DB) []model.PostTag {
	t.Helper()
	rows := []model.PostTag{}
	if err := gdb.Order("post_id, tag_id").Find(&rows).Error; err != nil {
		t.Fatalf("list junction rows: %v", err)
	}
	return rows
}
