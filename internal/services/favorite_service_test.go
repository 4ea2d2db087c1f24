package services

import (
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFavorite(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "alice", models.RoleUser)
	bob := createUser(t, "bob", models.RoleUser)
	p := createPrompt(t, "Saved", models.ContentStatusApproved, nil)

	res, err := ToggleFavorite(alice.ID, models.ContentTypePrompt, p.ID)
	require.NoError(t, err)
	assert.Equal(t, &FavoriteResult{Favorited: true, Count: 1}, res)

	res, err = ToggleFavorite(bob.ID, models.ContentTypePrompt, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)

	res, err = ToggleFavorite(alice.ID, models.ContentTypePrompt, p.ID)
	require.NoError(t, err)
	assert.Equal(t, &FavoriteResult{Favorited: false, Count: 1}, res)

	ids, err := GetUserFavoriteIDs(bob.ID, models.ContentTypePrompt, []uint{p.ID})
	require.NoError(t, err)
	assert.True(t, ids[p.ID])

	pending := createPrompt(t, "Pending", models.ContentStatusPending, nil)
	_, err = ToggleFavorite(alice.ID, models.ContentTypePrompt, pending.ID)
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestRemoveFavorite(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "user", models.RoleUser)
	p := createPrompt(t, "Saved", models.ContentStatusApproved, nil)

	assert.ErrorIs(t, RemoveFavorite(user.ID, models.ContentTypePrompt, p.ID), ErrFavoriteNotFound)

	_, err := ToggleFavorite(user.ID, models.ContentTypePrompt, p.ID)
	require.NoError(t, err)
	require.NoError(t, RemoveFavorite(user.ID, models.ContentTypePrompt, p.ID))

	var stored models.Prompt
	require.NoError(t, database.DB.First(&stored, p.ID).Error)
	assert.Equal(t, 0, stored.FavoriteCount)
}

func TestListFavoritesDropsUnavailableItems(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "user", models.RoleUser)
	p1 := createPrompt(t, "One", models.ContentStatusApproved, nil)
	p2 := createPrompt(t, "Two", models.ContentStatusApproved, nil)
	tool := &models.Tool{ContentBase: models.ContentBase{Title: "Tool", Slug: "tool", Status: models.ContentStatusApproved}}
	require.NoError(t, database.DB.Create(tool).Error)

	for _, fav := range []struct {
		t  models.ContentType
		id uint
	}{{models.ContentTypePrompt, p1.ID}, {models.ContentTypeTool, tool.ID}, {models.ContentTypePrompt, p2.ID}} {
		_, err := ToggleFavorite(user.ID, fav.t, fav.id)
		require.NoError(t, err)
	}

	// unpublished after being saved
	database.DB.Model(p2).UpdateColumn("status", models.ContentStatusRejected)

	page, err := ListFavorites(user.ID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.NextOffset)
	assert.True(t, page.HasMore)
	require.Len(t, page.Items, 1)
	assert.Equal(t, models.ContentTypeTool, page.Items[0].Type)
	assert.Equal(t, "Tool", page.Items[0].Item.Base().Title)

	page, err = ListFavorites(user.ID, page.NextOffset, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "One", page.Items[0].Item.Base().Title)
	assert.False(t, page.HasMore)
}
