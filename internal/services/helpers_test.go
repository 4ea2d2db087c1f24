package services

import (
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/models"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var githubIDs int64

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrator().DropTable(models.AllModels()...))
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	database.DB = db

	t.Cleanup(func() { sqlDB.Close() })
}

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	database.RedisClient = redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		if database.RedisClient != nil {
			database.RedisClient.Close()
			database.RedisClient = nil
		}
		mr.Close()
	})
	return mr
}

func createUser(t *testing.T, login, role string) *models.User {
	t.Helper()
	user := &models.User{
		GitHubID: atomic.AddInt64(&githubIDs, 1),
		Login:    login,
		Role:     role,
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func createPrompt(t *testing.T, title string, status models.ContentStatus, author *models.User, opts ...func(*models.Prompt)) *models.Prompt {
	t.Helper()
	p := &models.Prompt{ContentBase: models.ContentBase{
		Title:   title,
		Slug:    slugFor(models.ContentTypePrompt, title),
		Content: fmt.Sprintf("Body of %s", title),
		Status:  status,
	}}
	if author != nil {
		id := author.ID
		p.AuthorID = &id
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, database.DB.Create(p).Error)
	return p
}

func withCategory(c string) func(*models.Prompt) {
	return func(p *models.Prompt) { p.Category = c }
}

func withTags(tags ...string) func(*models.Prompt) {
	return func(p *models.Prompt) { p.Tags = tags }
}

func withScore(s int) func(*models.Prompt) {
	return func(p *models.Prompt) { p.VoteScore = s }
}

func approvedFilter(f ContentFilter) ContentFilter {
	f.Statuses = PublicStatuses
	return f
}
