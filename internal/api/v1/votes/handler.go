package votes

import (
	"aidirectory-backend/internal/api/v1/common"
	"aidirectory-backend/internal/middleware"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/services"
	"aidirectory-backend/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CastVote godoc
// @Summary Vote on content
// @Description Upvote (1) or downvote (-1) an approved item. Repeating the same vote withdraws it; the opposite value flips it.
// @Tags votes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body VoteRequest true "Vote"
// @Success 200 {object} utils.Response{data=services.VoteResult}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /votes [post]
func CastVote(c *gin.Context) {
	var req VoteRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	t, err := models.ParseContentType(req.Type)
	if err != nil {
		common.RespondError(c, services.ErrInvalidContentType, "")
		return
	}

	user := middleware.CurrentUser(c)
	result, err := services.CastVote(user.ID, t, req.ID, req.Value)
	if err != nil {
		common.RespondError(c, err, "Failed to record vote")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Vote recorded", result))
}
