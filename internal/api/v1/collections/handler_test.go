package collections_test

import (
	"aidirectory-backend/internal/api/apitest"
	"aidirectory-backend/internal/api/v1/collections"
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/models"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collectionBody struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	IsPublic  bool   `json:"is_public"`
	ItemCount int    `json:"item_count"`
	Items     []struct {
		ID       uint               `json:"id"`
		ItemType models.ContentType `json:"item_type"`
		Position int                `json:"position"`
	} `json:"items"`
}

func newRouter() *gin.Engine {
	r := gin.New()
	collections.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestCreateCollectionRequiresName(t *testing.T) {
	apitest.Setup(t)
	_, token := apitest.CreateUser(t, "curator", models.RoleUser)
	r := newRouter()

	for _, body := range []map[string]interface{}{{}, {"name": ""}, {"name": "   "}} {
		w := apitest.Do(r, http.MethodPost, "/api/v1/collections", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "collection name is required")
	}

	assert.Equal(t, http.StatusUnauthorized, apitest.Do(r, http.MethodPost, "/api/v1/collections", "", map[string]string{"name": "x"}).Code)
}

func TestCollectionLifecycle(t *testing.T) {
	apitest.Setup(t)
	_, token := apitest.CreateUser(t, "curator", models.RoleUser)
	_, otherToken := apitest.CreateUser(t, "other", models.RoleUser)
	recipe := &models.CodeRecipe{ContentBase: models.ContentBase{Title: "Retry loop", Slug: "retry-loop", Status: models.ContentStatusApproved}}
	require.NoError(t, database.DB.Create(recipe).Error)
	r := newRouter()

	w := apitest.Do(r, http.MethodPost, "/api/v1/collections", token, map[string]interface{}{"name": "Go snippets"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created collectionBody
	apitest.Decode(t, w, &created)
	base := fmt.Sprintf("/api/v1/collections/%d", created.ID)

	// private collections look missing to everyone but the owner
	assert.Equal(t, http.StatusNotFound, apitest.Do(r, http.MethodGet, base, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, apitest.Do(r, http.MethodGet, base, otherToken, nil).Code)

	item := map[string]interface{}{"type": "recipes", "id": recipe.ID, "note": "use with backoff"}
	w = apitest.Do(r, http.MethodPost, base+"/items", token, item)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var added struct {
		ID uint `json:"id"`
	}
	apitest.Decode(t, w, &added)
	assert.Equal(t, http.StatusConflict, apitest.Do(r, http.MethodPost, base+"/items", token, item).Code)

	w = apitest.Do(r, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got collectionBody
	apitest.Decode(t, w, &got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, models.ContentTypeCodeRecipe, got.Items[0].ItemType)

	public := true
	w = apitest.Do(r, http.MethodPut, base, token, map[string]interface{}{"is_public": public})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.StatusOK, apitest.Do(r, http.MethodGet, base, "", nil).Code)
	assert.Equal(t, http.StatusForbidden, apitest.Do(r, http.MethodPut, base, otherToken, map[string]string{"name": "mine now"}).Code)

	w = apitest.Do(r, http.MethodGet, "/api/v1/collections/public?query=snippets", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []collectionBody `json:"items"`
	}
	apitest.Decode(t, w, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Items[0].ItemCount)

	w = apitest.Do(r, http.MethodGet, "/api/v1/collections", token, nil)
	apitest.Decode(t, w, &page)
	assert.Len(t, page.Items, 1)

	itemPath := fmt.Sprintf("%s/items/%d", base, added.ID)
	assert.Equal(t, http.StatusOK, apitest.Do(r, http.MethodDelete, itemPath, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, apitest.Do(r, http.MethodDelete, itemPath, token, nil).Code)

	assert.Equal(t, http.StatusForbidden, apitest.Do(r, http.MethodDelete, base, otherToken, nil).Code)
	assert.Equal(t, http.StatusOK, apitest.Do(r, http.MethodDelete, base, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, apitest.Do(r, http.MethodGet, base, token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, apitest.Do(r, http.MethodGet, "/api/v1/collections/abc", "", nil).Code)
}
