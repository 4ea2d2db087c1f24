package services

import (
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastVoteSequence(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "alice", models.RoleUser)
	bob := createUser(t, "bob", models.RoleUser)
	p := createPrompt(t, "Votable", models.ContentStatusApproved, nil)

	steps := []struct {
		name      string
		user      *models.User
		value     int
		wantScore int
		wantVote  int
	}{
		{"alice upvotes", alice, 1, 1, 1},
		{"bob upvotes", bob, 1, 2, 1},
		{"alice repeats and withdraws", alice, 1, 1, 0},
		{"alice downvotes", alice, -1, 0, -1},
		{"alice flips to up", alice, 1, 2, 1},
		{"bob flips to down", bob, -1, 0, -1},
	}

	for _, s := range steps {
		res, err := CastVote(s.user.ID, models.ContentTypePrompt, p.ID, s.value)
		require.NoError(t, err, s.name)
		assert.Equal(t, s.wantScore, res.Score, s.name)
		assert.Equal(t, s.wantVote, res.UserVote, s.name)
	}

	var stored models.Prompt
	require.NoError(t, database.DB.First(&stored, p.ID).Error)
	assert.Equal(t, 0, stored.VoteScore)

	var sum int
	database.DB.Model(&models.Vote{}).Select("COALESCE(SUM(value), 0)").Scan(&sum)
	assert.Equal(t, stored.VoteScore, sum)
}

func TestCastVoteRejectsInvalidInput(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "user", models.RoleUser)
	pending := createPrompt(t, "Pending", models.ContentStatusPending, nil)

	_, err := CastVote(user.ID, models.ContentTypePrompt, pending.ID, 2)
	assert.ErrorIs(t, err, ErrInvalidVoteValue)
	_, err = CastVote(user.ID, models.ContentTypePrompt, pending.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidVoteValue)
	_, err = CastVote(user.ID, models.ContentTypePrompt, pending.ID, 1)
	assert.ErrorIs(t, err, ErrContentNotFound)
	_, err = CastVote(user.ID, models.ContentTypePrompt, 999, 1)
	assert.ErrorIs(t, err, ErrContentNotFound)
	_, err = CastVote(user.ID, "videos", 1, 1)
	assert.ErrorIs(t, err, ErrInvalidContentType)
}

func TestCastVoteInvalidatesCache(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	user := createUser(t, "user", models.RoleUser)
	p := createPrompt(t, "Cached", models.ContentStatusApproved, nil)

	_, err := GetContentBySlug(models.ContentTypePrompt, p.Slug, nil)
	require.NoError(t, err)
	require.True(t, mr.Exists(contentCacheKey(models.ContentTypePrompt, p.Slug)))

	_, err = CastVote(user.ID, models.ContentTypePrompt, p.ID, 1)
	require.NoError(t, err)
	assert.False(t, mr.Exists(contentCacheKey(models.ContentTypePrompt, p.Slug)))

	item, err := GetContentBySlug(models.ContentTypePrompt, p.Slug, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Base().VoteScore)
}

func TestGetUserVotes(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "user", models.RoleUser)
	a := createPrompt(t, "A", models.ContentStatusApproved, nil)
	b := createPrompt(t, "B", models.ContentStatusApproved, nil)
	c := createPrompt(t, "C", models.ContentStatusApproved, nil)

	_, err := CastVote(user.ID, models.ContentTypePrompt, a.ID, 1)
	require.NoError(t, err)
	_, err = CastVote(user.ID, models.ContentTypePrompt, b.ID, -1)
	require.NoError(t, err)

	votes, err := GetUserVotes(user.ID, models.ContentTypePrompt, []uint{a.ID, b.ID, c.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{a.ID: 1, b.ID: -1}, votes)

	empty, err := GetUserVotes(user.ID, models.ContentTypePrompt, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
