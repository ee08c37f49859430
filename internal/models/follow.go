package models

import "time"

// Follow represents a directed follow edge from FollowerID to FolloweeID.
// A single row encodes both sides of the relationship: FollowerID's
// "following" set and FolloweeID's "followers" set are projections of the
// same table, so the two sets can never disagree. The composite unique
// index makes edge insertion idempotent together with a conflict-ignoring
// INSERT.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follow_edge;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"followee,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
