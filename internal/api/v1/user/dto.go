package user

import (
	"aidirectory-backend/internal/models"
	"time"
)

// UserResponse defines the response structure for user information.
type UserResponse struct {
	ID        uint      `json:"id"`
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	Email     string    `json:"email,omitempty"`
	Bio       string    `json:"bio"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Token     string    `json:"token,omitempty"`
}

func NewUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Login:     u.Login,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Email:     u.Email,
		Bio:       u.Bio,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
