package model

// User is a blog author.
type User struct {
	ID        uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName string  `json:"first_name" gorm:"size:50;not null"`
	LastName  string  `json:"last_name" gorm:"size:50;not null"`
	ImageURL  *string `json:"image_url" gorm:"size:500"`

	// Relations
	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:UserID"`
}

// FullName returns "first last".
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
