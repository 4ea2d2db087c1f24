package favorites

type FavoriteRequest struct {
	Type string `json:"type" binding:"required"`
	ID   uint   `json:"id" binding:"required"`
}
