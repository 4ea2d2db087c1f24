package user

import (
	"aidirectory-backend/internal/models"
	"time"
)

type UserListItem struct {
	ID        uint      `json:"id"`
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	Role      string    `json:"role"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toListItem(u models.User) UserListItem {
	return UserListItem{
		ID:        u.ID,
		Login:     u.Login,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		Version:   u.Version,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type UserListResponse struct {
	Items      []UserListItem `json:"items"`
	Total      int64          `json:"total"`
	HasMore    bool           `json:"hasMore"`
	NextOffset int            `json:"nextOffset"`
}

// UpdateUserRequest represents the request body for updating a user.
// Version must match the stored version when set.
type UpdateUserRequest struct {
	Role    *string `json:"role,omitempty" binding:"omitempty,oneof=admin user"`
	Name    *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Version int     `json:"version" binding:"omitempty,min=1"`
}
