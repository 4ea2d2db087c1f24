package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrContentNotFound         = errors.New("content not found")
	ErrInvalidContentType      = errors.New("invalid content type")
	ErrInvalidStatus           = errors.New("invalid content status")
	ErrDuplicateSlug           = errors.New("an item with this slug already exists")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrInvalidVoteValue        = errors.New("vote value must be 1 or -1")
	ErrCollectionNotFound      = errors.New("collection not found")
	ErrCollectionNameRequired  = errors.New("collection name is required")
	ErrItemAlreadyInCollection = errors.New("item is already in this collection")
	ErrCollectionItemNotFound  = errors.New("collection item not found")
	ErrFavoriteNotFound        = errors.New("favorite not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrOptimisticLock          = errors.New("data has been modified by another user, please refresh and try again")
	ErrContributionsDisabled   = errors.New("contributions are not configured")
	ErrRedisUnavailable        = errors.New("redis is not configured")
)

// isUniqueViolation recognizes a unique index rejection, whether or not the
// dialect translated it to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "sqlstate 23505")
}
