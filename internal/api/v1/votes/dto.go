package votes

// VoteRequest casts +1 or -1. Sending the same value again removes the vote.
type VoteRequest struct {
	Type  string `json:"type" binding:"required"`
	ID    uint   `json:"id" binding:"required"`
	Value int    `json:"value" binding:"required,oneof=1 -1"`
}
