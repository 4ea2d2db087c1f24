package search

import (
	"aidirectory-backend/internal/api/v1/common"
	"aidirectory-backend/internal/services"
	"aidirectory-backend/internal/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SearchAll godoc
// @Summary Search every content type
// @Description Runs the query against all content types and returns non-empty groups. An empty query returns no groups.
// @Tags search
// @Produce json
// @Param query query string true "Search text"
// @Param limit query int false "Items per type" default(5)
// @Success 200 {object} utils.Response{data=[]services.SearchGroup}
// @Failure 500 {object} utils.Response
// @Router /search [get]
func SearchAll(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit > services.MaxPageLimit {
		limit = services.MaxPageLimit
	}

	groups, err := services.SearchAll(c.Request.Context(), c.Query("query"), limit)
	if err != nil {
		common.RespondError(c, err, "Search failed")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Search completed", groups))
}
