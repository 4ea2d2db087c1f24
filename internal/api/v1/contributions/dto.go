package contributions

import "encoding/json"

// ContributionRequest carries the content type and the fields of the new item.
type ContributionRequest struct {
	Type   string          `json:"type" binding:"required"`
	Fields json.RawMessage `json:"fields" binding:"required" swaggertype:"object"`
}
