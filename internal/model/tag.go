package model

import "gorm.io/gorm"

// Tag is a globally unique label attached to posts.
type Tag struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Version uint   `json:"version" gorm:"not null;default:1"`

	// Relations
	Posts []Post `json:"posts,omitempty" gorm:"many2many:posts_tags"`
}

// BeforeCreate starts every tag at version 1.
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.Version == 0 {
		t.Version = 1
	}
	return nil
}
