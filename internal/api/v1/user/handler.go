package user

import (
	"aidirectory-backend/internal/api/v1/common"
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/middleware"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/services"
	"aidirectory-backend/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CurrentUser godoc
// @Summary Get current user
// @Description Get the signed-in user's information with a refreshed token
// @Tags user
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=user.UserResponse}
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /auth/user [get]
func CurrentUser(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	// the middleware copy may come from the cache, which does not carry the email
	var latest models.User
	if err := database.DB.First(&latest, u.ID).Error; err == nil {
		u = &latest
	}

	token, err := utils.GenerateToken(u.ID, u.Login, u.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Could not generate token"))
		return
	}

	resp := NewUserResponse(*u)
	resp.Token = token
	c.JSON(http.StatusOK, utils.NewSuccessResponse("User information retrieved successfully", resp))
}

// Profile godoc
// @Summary Public profile
// @Description A user's approved content counts per type and public collections
// @Tags user
// @Produce json
// @Param login path string true "GitHub login"
// @Success 200 {object} utils.Response{data=services.UserProfile}
// @Failure 404 {object} utils.Response
// @Router /users/{login} [get]
func Profile(c *gin.Context) {
	profile, err := services.GetUserProfile(c.Param("login"))
	if err != nil {
		common.RespondError(c, err, "Failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Profile retrieved successfully", profile))
}
