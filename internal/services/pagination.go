package services

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page is an offset-paginated slice of results.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	HasMore    bool  `json:"hasMore"`
	NextOffset int   `json:"nextOffset"`
}

// NormalizePage clamps offset to >= 0 and limit to 1..MaxPageLimit, using
// DefaultPageLimit when limit is not positive.
func NormalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return offset, limit
}

// NewPage computes the continuation fields from the returned item count.
func NewPage[T any](items []T, offset int, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	next := offset + len(items)
	return &Page[T]{
		Items:      items,
		Total:      total,
		HasMore:    int64(next) < total,
		NextOffset: next,
	}
}
