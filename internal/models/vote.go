package models

import "time"

// Vote is a +1/-1 vote by a user on a content item.
type Vote struct {
	ID         uint        `gorm:"primarykey" json:"id"`
	UserID     uint        `gorm:"not null;uniqueIndex:idx_vote_target" json:"user_id"`
	TargetType ContentType `gorm:"size:20;not null;uniqueIndex:idx_vote_target;index:idx_vote_lookup" json:"target_type"`
	TargetID   uint        `gorm:"not null;uniqueIndex:idx_vote_target;index:idx_vote_lookup" json:"target_id"`
	Value      int         `gorm:"not null" json:"value"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Favorite marks a content item as saved by a user.
type Favorite struct {
	ID         uint        `gorm:"primarykey" json:"id"`
	UserID     uint        `gorm:"not null;uniqueIndex:idx_favorite_target" json:"user_id"`
	TargetType ContentType `gorm:"size:20;not null;uniqueIndex:idx_favorite_target;index:idx_favorite_lookup" json:"target_type"`
	TargetID   uint        `gorm:"not null;uniqueIndex:idx_favorite_target;index:idx_favorite_lookup" json:"target_id"`
	CreatedAt  time.Time   `json:"created_at"`
}
