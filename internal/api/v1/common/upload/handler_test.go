package upload_test

import (
	"aidirectory-backend/internal/api/apitest"
	"aidirectory-backend/internal/api/v1/common/upload"
	"aidirectory-backend/internal/middleware"
	"aidirectory-backend/internal/models"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetOSSTokenWhenDisabled(t *testing.T) {
	apitest.Setup(t)
	t.Setenv("OSS_ENDPOINT", "")
	t.Setenv("OSS_BUCKET_NAME", "")
	_, token := apitest.CreateUser(t, "uploader", models.RoleUser)

	r := gin.New()
	upload.RegisterRoutes(r.Group("/api/v1", middleware.AuthMiddleware()))

	w := apitest.Do(r, http.MethodGet, "/api/v1/common/upload/token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = apitest.Do(r, http.MethodGet, "/api/v1/common/upload/token", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	env := apitest.Decode(t, w, nil)
	assert.Equal(t, http.StatusServiceUnavailable, env.Status)
}
