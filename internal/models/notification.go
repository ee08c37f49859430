package models

import "time"

// NotificationKind classifies the event a notification was fanned out from.
type NotificationKind string

const (
	// NotificationKindFollow is emitted when a user gains a follower.
	NotificationKindFollow NotificationKind = "follow"
	// NotificationKindLike exists because clients render it for rows
	// produced elsewhere; no mutation path in this service emits it.
	NotificationKindLike NotificationKind = "like"
	// NotificationKindComment is emitted when someone comments on a
	// user's post.
	NotificationKindComment NotificationKind = "comment"
)

// Notification is a directed, append-only ledger entry from an actor to a
// recipient. Follow and comment notifications are never self-directed; the
// services enforce actor != recipient before emitting.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	FromID    uint             `gorm:"not null;index" json:"from_id"`
	ToID      uint             `gorm:"not null;index" json:"to_id"`
	Kind      NotificationKind `gorm:"type:varchar(20);not null" json:"kind"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time        `json:"created_at"`

	// Relationships
	From User `gorm:"foreignKey:FromID" json:"from"`
	To   User `gorm:"foreignKey:ToID" json:"-"`
}
