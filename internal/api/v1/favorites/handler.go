package favorites

import (
	"aidirectory-backend/internal/api/v1/common"
	"aidirectory-backend/internal/middleware"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/services"
	"aidirectory-backend/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ToggleFavorite godoc
// @Summary Toggle a favorite
// @Description Saves an approved item for the caller, or removes it when already saved
// @Tags favorites
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body FavoriteRequest true "Target"
// @Success 200 {object} utils.Response{data=services.FavoriteResult}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /favorites [post]
func ToggleFavorite(c *gin.Context) {
	var req FavoriteRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	t, err := models.ParseContentType(req.Type)
	if err != nil {
		common.RespondError(c, services.ErrInvalidContentType, "")
		return
	}

	result, err := services.ToggleFavorite(middleware.CurrentUser(c).ID, t, req.ID)
	if err != nil {
		common.RespondError(c, err, "Failed to update favorite")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Favorite updated", result))
}

// ListFavorites godoc
// @Summary List favorites
// @Description The caller's saved items, newest first
// @Tags favorites
// @Produce json
// @Security ApiKeyAuth
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} utils.Response{data=services.Page[services.FavoriteEntry]}
// @Router /favorites [get]
func ListFavorites(c *gin.Context) {
	offset, limit := common.PageParams(c)
	page, err := services.ListFavorites(middleware.CurrentUser(c).ID, offset, limit)
	if err != nil {
		common.RespondError(c, err, "Failed to fetch favorites")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Favorites retrieved successfully", page))
}

// RemoveFavorite godoc
// @Summary Remove a favorite
// @Tags favorites
// @Produce json
// @Security ApiKeyAuth
// @Param type path string true "Content type"
// @Param id path int true "Content ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /favorites/{type}/{id} [delete]
func RemoveFavorite(c *gin.Context) {
	t, err := models.ParseContentType(c.Param("type"))
	if err != nil {
		common.RespondError(c, services.ErrInvalidContentType, "")
		return
	}
	id, ok := common.ParseID(c, "id")
	if !ok {
		return
	}

	if err := services.RemoveFavorite(middleware.CurrentUser(c).ID, t, id); err != nil {
		common.RespondError(c, err, "Failed to remove favorite")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Favorite removed", nil))
}
