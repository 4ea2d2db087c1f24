package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name                  string
		offset, limit         int
		wantOffset, wantLimit int
	}{
		{"defaults", 0, 0, 0, DefaultPageLimit},
		{"negative offset", -5, 10, 0, 10},
		{"negative limit", 3, -1, 3, DefaultPageLimit},
		{"clamped limit", 0, 1000, 0, MaxPageLimit},
		{"unchanged", 40, 20, 40, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, l := NormalizePage(tt.offset, tt.limit)
			assert.Equal(t, tt.wantOffset, o)
			assert.Equal(t, tt.wantLimit, l)
		})
	}
}

func TestNewPageAdvancesByReturnedCount(t *testing.T) {
	p := NewPage([]int{1, 2, 3}, 10, 20)
	assert.Equal(t, 13, p.NextOffset)
	assert.True(t, p.HasMore)

	p = NewPage([]int{1, 2}, 18, 20)
	assert.Equal(t, 20, p.NextOffset)
	assert.False(t, p.HasMore)

	empty := NewPage[int](nil, 0, 0)
	assert.NotNil(t, empty.Items)
	assert.False(t, empty.HasMore)
	assert.Equal(t, 0, empty.NextOffset)
}
