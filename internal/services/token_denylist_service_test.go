package services

import (
	"aidirectory-backend/internal/database"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenylist(t *testing.T) {
	mr := setupTestRedis(t)

	listed, err := IsDenylisted("token-a")
	require.NoError(t, err)
	assert.False(t, listed)

	require.NoError(t, AddToDenylist("token-a", time.Minute))
	listed, err = IsDenylisted("token-a")
	require.NoError(t, err)
	assert.True(t, listed)

	mr.FastForward(2 * time.Minute)
	listed, err = IsDenylisted("token-a")
	require.NoError(t, err)
	assert.False(t, listed)

	require.NoError(t, AddToDenylist("expired", 0))
	assert.False(t, mr.Exists(denylistPrefix+"expired"))
}

func TestDenylistWithoutRedis(t *testing.T) {
	database.RedisClient = nil

	assert.ErrorIs(t, AddToDenylist("token", time.Minute), ErrRedisUnavailable)
	listed, err := IsDenylisted("token")
	assert.NoError(t, err)
	assert.False(t, listed)
}
