package favorites_test

import (
	"aidirectory-backend/internal/api/apitest"
	"aidirectory-backend/internal/api/v1/favorites"
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/middleware"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/services"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoritesFlow(t *testing.T) {
	apitest.Setup(t)
	_, token := apitest.CreateUser(t, "saver", models.RoleUser)
	tool := &models.Tool{ContentBase: models.ContentBase{Title: "Tool", Slug: "tool", Status: models.ContentStatusApproved}}
	require.NoError(t, database.DB.Create(tool).Error)

	r := gin.New()
	favorites.RegisterRoutes(r.Group("/api/v1", middleware.AuthMiddleware()))

	w := apitest.Do(r, http.MethodPost, "/api/v1/favorites", token, map[string]interface{}{"type": "tools", "id": tool.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result services.FavoriteResult
	apitest.Decode(t, w, &result)
	assert.Equal(t, services.FavoriteResult{Favorited: true, Count: 1}, result)

	w = apitest.Do(r, http.MethodGet, "/api/v1/favorites", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []struct {
			Type models.ContentType `json:"type"`
			Item models.Tool        `json:"item"`
		} `json:"items"`
		NextOffset int `json:"nextOffset"`
	}
	apitest.Decode(t, w, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, models.ContentTypeTool, page.Items[0].Type)
	assert.Equal(t, "tool", page.Items[0].Item.Slug)
	assert.Equal(t, 1, page.NextOffset)

	path := fmt.Sprintf("/api/v1/favorites/tools/%d", tool.ID)
	assert.Equal(t, http.StatusOK, apitest.Do(r, http.MethodDelete, path, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, apitest.Do(r, http.MethodDelete, path, token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, apitest.Do(r, http.MethodDelete, "/api/v1/favorites/widgets/1", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, apitest.Do(r, http.MethodDelete, "/api/v1/favorites/tools/abc", token, nil).Code)
}
