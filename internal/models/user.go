// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user in the Plume application.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	FullName  string         `json:"full_name"`
	Bio       string         `json:"bio"`
	Link      string         `json:"link"`
	Avatar    string         `json:"avatar"`
	CoverImg  string         `json:"cover_img"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// Sanitized returns a copy safe for API responses. GORM serialization
// already skips the password via the json tag; this exists for call sites
// that build maps or partial projections by hand.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
