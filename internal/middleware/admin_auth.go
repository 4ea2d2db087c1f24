package middleware

import (
	"aidirectory-backend/internal/utils"
	"aidirectory-backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminAuthMiddleware validates that the user has admin privileges. The role is
// read from the user record so a demotion takes effect before the token expires.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := utils.ExtractToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, err.Error()))
			c.Abort()
			return
		}

		user, claims, authErr := authenticate(tokenString)
		if authErr != nil {
			c.JSON(authErr.status, utils.NewErrorResponse(authErr.status, authErr.message))
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			logger.Log.Warn("Unauthorized admin access attempt",
				zap.Uint("user_id", user.ID),
				zap.String("login", user.Login),
				zap.String("path", c.Request.URL.Path),
			)
			c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, "Forbidden: Admins only"))
			c.Abort()
			return
		}

		setAuth(c, user, tokenString, claims)
		c.Next()
	}
}
