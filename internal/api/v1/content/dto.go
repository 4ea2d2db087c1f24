package content

import "aidirectory-backend/internal/models"

// ListResponse is a page of content. UserVotes and Favorites are only present
// for signed-in callers.
type ListResponse struct {
	Items      []models.Content `json:"items"`
	Total      int64            `json:"total"`
	HasMore    bool             `json:"hasMore"`
	NextOffset int              `json:"nextOffset"`
	UserVotes  map[uint]int     `json:"userVotes,omitempty"`
	Favorites  []uint           `json:"favorites,omitempty"`
}

type DetailResponse struct {
	Item      models.Content `json:"item"`
	UserVote  int            `json:"userVote"`
	Favorited bool           `json:"favorited"`
}

type StatusRequest struct {
	Status models.ContentStatus `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED"`
}
