// Package common holds helpers shared by the v1 handlers.
package common

import (
	"aidirectory-backend/internal/services"
	"aidirectory-backend/internal/utils"
	"aidirectory-backend/pkg/logger"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{services.ErrContentNotFound, http.StatusNotFound},
	{services.ErrCollectionNotFound, http.StatusNotFound},
	{services.ErrCollectionItemNotFound, http.StatusNotFound},
	{services.ErrFavoriteNotFound, http.StatusNotFound},
	{services.ErrUserNotFound, http.StatusNotFound},
	{services.ErrInvalidContentType, http.StatusBadRequest},
	{services.ErrInvalidStatus, http.StatusBadRequest},
	{services.ErrInvalidVoteValue, http.StatusBadRequest},
	{services.ErrCollectionNameRequired, http.StatusBadRequest},
	{services.ErrPermissionDenied, http.StatusForbidden},
	{services.ErrDuplicateSlug, http.StatusConflict},
	{services.ErrItemAlreadyInCollection, http.StatusConflict},
	{services.ErrOptimisticLock, http.StatusConflict},
	{services.ErrContributionsDisabled, http.StatusServiceUnavailable},
	{services.ErrRedisUnavailable, http.StatusServiceUnavailable},
	{services.ErrUploadsDisabled, http.StatusServiceUnavailable},
}

// StatusFor maps a service error to its HTTP status, defaulting to 500.
func StatusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// RespondError writes the envelope for err. Unexpected errors are logged and
// answered with fallback so internals do not leak.
func RespondError(c *gin.Context, err error, fallback string) {
	var vErr *utils.ValidationError
	if errors.As(err, &vErr) {
		utils.RespondValidationError(c, vErr.Details)
		return
	}

	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Log.Error(fallback, zap.Error(err), zap.String("path", c.Request.URL.Path))
		message = fallback
	}
	c.JSON(status, utils.NewErrorResponse(status, message))
}

// PageParams reads offset and limit. Missing or malformed values fall back to
// the defaults instead of failing the request.
func PageParams(c *gin.Context) (int, int) {
	offset, _ := strconv.Atoi(c.Query("offset"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return services.NormalizePage(offset, limit)
}

// ParseID reads a positive numeric path parameter.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid "+name))
		return 0, false
	}
	return uint(id), true
}
