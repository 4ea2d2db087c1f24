package middleware

import (
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/services"
	"aidirectory-backend/internal/utils"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userKey   = "user"
	tokenKey  = "token"
	claimsKey = "claims"
)

type authError struct {
	status  int
	message string
}

// authenticate resolves the bearer token on the request to a user.
func authenticate(tokenString string) (*models.User, jwt.MapClaims, *authError) {
	isDenylisted, err := services.IsDenylisted(tokenString)
	if err != nil {
		return nil, nil, &authError{http.StatusInternalServerError, "Failed to check token status"}
	}
	if isDenylisted {
		return nil, nil, &authError{http.StatusUnauthorized, "Token has been revoked"}
	}

	claims, err := utils.ValidateToken(tokenString)
	if err != nil {
		return nil, nil, &authError{http.StatusUnauthorized, "Invalid or expired token"}
	}

	userID, ok := utils.ClaimUserID(claims)
	if !ok {
		return nil, nil, &authError{http.StatusUnauthorized, "Invalid user ID in token"}
	}

	user, err := services.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return nil, nil, &authError{http.StatusUnauthorized, "User not found"}
		}
		return nil, nil, &authError{http.StatusInternalServerError, "Failed to load user"}
	}
	return &user, claims, nil
}

func setAuth(c *gin.Context, user *models.User, tokenString string, claims jwt.MapClaims) {
	c.Set(userKey, *user)
	c.Set(tokenKey, tokenString)
	c.Set(claimsKey, claims)
}

// AuthMiddleware rejects requests without a valid, non-revoked bearer token.
func AuthMiddleware() gin.HandlerFunc {
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

		setAuth(c, user, tokenString, claims)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is sent and otherwise
// lets the request through anonymously.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := utils.ExtractToken(c)
		if err == nil {
			if user, claims, authErr := authenticate(tokenString); authErr == nil {
				setAuth(c, user, tokenString, claims)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, ok := v.(models.User)
	if !ok {
		return nil
	}
	return &user
}

// CurrentToken returns the raw bearer token and its claims set by AuthMiddleware.
func CurrentToken(c *gin.Context) (string, jwt.MapClaims) {
	token := c.GetString(tokenKey)
	claims, _ := c.Get(claimsKey)
	mc, _ := claims.(jwt.MapClaims)
	return token, mc
}
