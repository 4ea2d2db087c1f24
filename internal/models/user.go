package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a GitHub account that signed in at least once.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	GitHubID  int64     `gorm:"column:github_id;uniqueIndex;not null" json:"github_id"`
	Login     string    `gorm:"size:100;uniqueIndex;not null" json:"login"`
	Name      string    `gorm:"size:200" json:"name,omitempty"`
	AvatarURL string    `gorm:"size:500" json:"avatar_url,omitempty"`
	Email     string    `gorm:"size:200" json:"-"`
	Bio       string    `gorm:"size:500" json:"bio,omitempty"`
	Role      string    `gorm:"size:20;not null;default:'user'" json:"role"`
	Version   int       `gorm:"default:1" json:"version"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
