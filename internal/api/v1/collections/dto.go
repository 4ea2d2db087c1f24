package collections

type CreateCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type UpdateCollectionRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

type AddItemRequest struct {
	Type string `json:"type" binding:"required"`
	ID   uint   `json:"id" binding:"required"`
	Note string `json:"note"`
}
