package content

import (
	"aidirectory-backend/internal/api/v1/common"
	"aidirectory-backend/internal/middleware"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/services"
	"aidirectory-backend/internal/utils"
	"aidirectory-backend/pkg/logger"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the CRUD routes of one content type.
type Handler struct {
	Type models.ContentType
}

func NewHandler(t models.ContentType) *Handler {
	return &Handler{Type: t}
}

func (h *Handler) filterFrom(c *gin.Context, viewer *models.User) services.ContentFilter {
	offset, limit := common.PageParams(c)
	f := services.ContentFilter{
		Offset:     offset,
		Limit:      limit,
		Category:   c.Query("category"),
		Query:      c.Query("query"),
		Tag:        c.Query("tag"),
		Difficulty: models.Difficulty(strings.ToUpper(c.Query("difficulty"))),
		Sort:       c.DefaultQuery("sort", services.SortNewest),
		Statuses:   services.PublicStatuses,
	}
	// "mine" lists the caller's own submissions in every state.
	if viewer != nil && c.Query("mine") == "true" {
		id := viewer.ID
		f.AuthorID = &id
		f.Statuses = nil
	}
	return f
}

// List godoc
// @Summary List content
// @Description Paginated listing of approved items of one content type. Invalid paging values fall back to defaults.
// @Tags content
// @Produce json
// @Param type path string true "Content type" Enums(prompts, instructions, agents, mcps, tools, workflows, recipes, migrations, learning-paths)
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Items per page" default(20)
// @Param category query string false "Category, 'all' for no filter"
// @Param query query string false "Case-insensitive text search"
// @Param tag query string false "Tag"
// @Param difficulty query string false "Difficulty" Enums(BEGINNER, INTERMEDIATE, ADVANCED)
// @Param sort query string false "Sort order" Enums(newest, oldest, popular, title)
// @Param mine query bool false "Only the caller's own submissions"
// @Success 200 {object} utils.Response{data=ListResponse}
// @Failure 500 {object} utils.Response
// @Router /{type} [get]
func (h *Handler) List(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	page, err := services.ListContent(h.Type, h.filterFrom(c, viewer))
	if err != nil {
		common.RespondError(c, err, "Failed to fetch "+h.Type.RoutePath())
		return
	}

	resp := ListResponse{
		Items:      page.Items,
		Total:      page.Total,
		HasMore:    page.HasMore,
		NextOffset: page.NextOffset,
	}
	if viewer != nil && len(page.Items) > 0 {
		ids := make([]uint, len(page.Items))
		for i, item := range page.Items {
			ids[i] = item.Base().ID
		}
		h.decorate(viewer.ID, ids, &resp)
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Content retrieved successfully", resp))
}

// decorate adds the caller's votes and favorites. Failures only cost the decoration.
func (h *Handler) decorate(userID uint, ids []uint, resp *ListResponse) {
	votes, err := services.GetUserVotes(userID, h.Type, ids)
	if err != nil {
		logger.Log.Warn("Failed to load user votes", zap.Error(err))
	} else if len(votes) > 0 {
		resp.UserVotes = votes
	}

	favs, err := services.GetUserFavoriteIDs(userID, h.Type, ids)
	if err != nil {
		logger.Log.Warn("Failed to load user favorites", zap.Error(err))
		return
	}
	for _, id := range ids {
		if favs[id] {
			resp.Favorites = append(resp.Favorites, id)
		}
	}
}

// Categories godoc
// @Summary List categories
// @Description Categories in use by approved items, most used first
// @Tags content
// @Produce json
// @Param type path string true "Content type"
// @Success 200 {object} utils.Response{data=[]services.CategoryCount}
// @Failure 500 {object} utils.Response
// @Router /{type}/categories [get]
func (h *Handler) Categories(c *gin.Context) {
	categories, err := services.ListCategories(h.Type)
	if err != nil {
		common.RespondError(c, err, "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Categories retrieved successfully", categories))
}

// Get godoc
// @Summary Get content by slug
// @Description Approved items are public; pending and rejected items are visible to their author and admins
// @Tags content
// @Produce json
// @Param type path string true "Content type"
// @Param slug path string true "Slug"
// @Success 200 {object} utils.Response{data=DetailResponse}
// @Failure 404 {object} utils.Response
// @Router /{type}/{slug} [get]
func (h *Handler) Get(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	item, err := services.GetContentBySlug(h.Type, c.Param("slug"), viewer)
	if err != nil {
		common.RespondError(c, err, "Failed to fetch content")
		return
	}

	resp := DetailResponse{Item: item}
	if viewer != nil {
		id := item.Base().ID
		if votes, err := services.GetUserVotes(viewer.ID, h.Type, []uint{id}); err == nil {
			resp.UserVote = votes[id]
		}
		if favs, err := services.GetUserFavoriteIDs(viewer.ID, h.Type, []uint{id}); err == nil {
			resp.Favorited = favs[id]
		}
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Content retrieved successfully", resp))
}

// Create godoc
// @Summary Submit content
// @Description Creates an item authored by the caller. It stays PENDING until an admin approves it; admin submissions are approved directly.
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param type path string true "Content type"
// @Param body body object true "Fields of the content type"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /{type} [post]
func (h *Handler) Create(c *gin.Context) {
	item, err := models.NewContent(h.Type)
	if err != nil {
		common.RespondError(c, services.ErrInvalidContentType, "")
		return
	}
	if !utils.BindAndValidate(c, item) {
		return
	}

	created, err := services.CreateContent(h.Type, item, middleware.CurrentUser(c))
	if err != nil {
		common.RespondError(c, err, "Failed to create content")
		return
	}
	c.JSON(http.StatusCreated, utils.NewCreatedResponse("Content created successfully", created))
}

// Update godoc
// @Summary Update content
// @Description Partial update by the author or an admin. Slug, status, author and counters cannot be changed here.
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param type path string true "Content type"
// @Param slug path string true "Slug"
// @Param body body object true "Fields to change"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /{type}/{slug} [put]
func (h *Handler) Update(c *gin.Context) {
	var patch map[string]interface{}
	if !utils.BindAndValidate(c, &patch) {
		return
	}

	updated, err := services.UpdateContent(h.Type, c.Param("slug"), patch, middleware.CurrentUser(c))
	if err != nil {
		common.RespondError(c, err, "Failed to update content")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Content updated successfully", updated))
}

// Delete godoc
// @Summary Delete content
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param type path string true "Content type"
// @Param slug path string true "Slug"
// @Success 200 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /{type}/{slug} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := services.DeleteContent(h.Type, c.Param("slug"), middleware.CurrentUser(c)); err != nil {
		common.RespondError(c, err, "Failed to delete content")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Content deleted successfully", nil))
}

// SetStatus godoc
// @Summary Moderate content
// @Description Approve, reject or reset an item. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param type path string true "Content type"
// @Param slug path string true "Slug"
// @Param body body StatusRequest true "New status"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /{type}/{slug}/status [patch]
func (h *Handler) SetStatus(c *gin.Context) {
	var req StatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	item, err := services.SetContentStatus(h.Type, c.Param("slug"), req.Status)
	if err != nil {
		common.RespondError(c, err, "Failed to update status")
		return
	}

	operator := "unknown"
	if u := middleware.CurrentUser(c); u != nil {
		operator = u.Login
	}
	logger.Log.Info("Content moderated",
		zap.String("type", string(h.Type)),
		zap.String("slug", item.Base().Slug),
		zap.String("status", string(req.Status)),
		zap.String("operator", operator),
	)
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Status updated successfully", item))
}
