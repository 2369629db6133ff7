// post.go - Defines the Post model for the database

package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a blog entry. Comments is filled at read time with the live comments
// of the post and is never written through the Post.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Comments  []Comment      `gorm:"foreignKey:PostID" json:"comments"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // Soft delete; comments of a deleted post become unreachable
}
