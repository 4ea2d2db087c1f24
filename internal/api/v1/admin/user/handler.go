package user

import (
	"aidirectory-backend/internal/api/v1/common"
	"aidirectory-backend/internal/middleware"
	"aidirectory-backend/internal/services"
	"aidirectory-backend/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListUsers godoc
// @Summary List all users
// @Description Get a paginated list of users, newest first. Admin only.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} utils.Response{data=UserListResponse}
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/users [get]
func ListUsers(c *gin.Context) {
	offset, limit := common.PageParams(c)
	page, err := services.FindUsers(offset, limit)
	if err != nil {
		common.RespondError(c, err, "Failed to fetch users")
		return
	}

	items := make([]UserListItem, 0, len(page.Items))
	for _, u := range page.Items {
		items = append(items, toListItem(u))
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Users retrieved successfully", UserListResponse{
		Items:      items,
		Total:      page.Total,
		HasMore:    page.HasMore,
		NextOffset: page.NextOffset,
	}))
}

// UpdateUser godoc
// @Summary Update a user
// @Description Change a user's role or display name. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Param body body UpdateUserRequest true "User details to update"
// @Success 200 {object} utils.Response{data=UserListItem}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/users/{id} [patch]
func UpdateUser(c *gin.Context) {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	updates := make(map[string]interface{})
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "No fields to update"))
		return
	}

	operator := "unknown"
	if u := middleware.CurrentUser(c); u != nil {
		operator = u.Login
	}

	updated, err := services.UpdateUser(id, req.Version, updates, operator)
	if err != nil {
		common.RespondError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("User updated successfully", toListItem(*updated)))
}
