package model

// PostTag is one row of the post/tag junction. The pair is its identity.
type PostTag struct {
	PostID uint `json:"post_id" gorm:"primaryKey;autoIncrement:false"`
	TagID  uint `json:"tag_id" gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName pins the junction table shared by Post.Tags and Tag.Posts.
func (PostTag) TableName() string {
	return "posts_tags"
}
