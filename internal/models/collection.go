package models

import "time"

// Collection is a named, user-curated list of content references.
type Collection struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	UserID      uint             `gorm:"not null;index" json:"user_id"`
	User        *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name        string           `gorm:"size:100;not null" json:"name"`
	Slug        string           `gorm:"size:120;index" json:"slug"`
	Description string           `gorm:"size:500" json:"description"`
	IsPublic    bool             `gorm:"not null;default:false;index" json:"is_public"`
	Items       []CollectionItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	ItemCount   int              `gorm:"-" json:"item_count"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CollectionItem is a polymorphic reference from a collection to a content item.
type CollectionItem struct {
	ID           uint        `gorm:"primarykey" json:"id"`
	CollectionID uint        `gorm:"not null;uniqueIndex:idx_collection_member" json:"collection_id"`
	ItemType     ContentType `gorm:"size:20;not null;uniqueIndex:idx_collection_member;index:idx_collection_item_target" json:"item_type"`
	ItemID       uint        `gorm:"not null;uniqueIndex:idx_collection_member;index:idx_collection_item_target" json:"item_id"`
	Note         string      `gorm:"size:500" json:"note,omitempty"`
	Position     int         `gorm:"not null;default:0" json:"position"`
	Item         Content     `gorm:"-" json:"item,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}
