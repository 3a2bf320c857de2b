package model

import (
	"time"

	"gorm.io/gorm"
)

// Post is a blog post owned by exactly one user.
// Version is bumped on every conditional write and used to detect concurrent modification.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"type:text;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime;<-:create"`
	UserID    uint      `json:"user_id" gorm:"not null;index;<-:create"`
	Version   uint      `json:"version" gorm:"not null;default:1"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Tags []Tag `json:"tags" gorm:"many2many:posts_tags"`
}

// BeforeCreate starts every post at version 1.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.Version == 0 {
		p.Version = 1
	}
	return nil
}
