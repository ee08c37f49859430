// Package models contains data structures for the application's domain models.
package models

import "time"

// Comment represents a comment on a post. Comments are append-only: the API
// exposes no update or delete operation, and listings preserve insertion
// order.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
