// Package apitest wires an in-memory database, a miniredis instance and signed
// tokens for handler tests.
package apitest

import (
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/utils"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const JWTSecret = "test_secret"

var githubIDs int64

// Setup prepares a fresh schema and Redis for one test and returns the Redis server.
func Setup(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", JWTSecret)
	utils.RegisterBindingValidators()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrator().DropTable(models.AllModels()...))
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	database.DB = db

	mr, err := miniredis.Run()
	require.NoError(t, err)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		if database.RedisClient != nil {
			database.RedisClient.Close()
			database.RedisClient = nil
		}
		mr.Close()
		sqlDB.Close()
	})
	return mr
}

// CreateUser stores a user and returns it with a signed token.
func CreateUser(t *testing.T, login, role string) (models.User, string) {
	t.Helper()
	user := models.User{GitHubID: atomic.AddInt64(&githubIDs, 1), Login: login, Role: role}
	require.NoError(t, database.DB.Create(&user).Error)
	token, err := utils.GenerateToken(user.ID, user.Login, user.Role)
	require.NoError(t, err)
	return user, token
}

// Do sends a JSON request through the router. body may be nil.
func Do(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Envelope mirrors utils.Response with the data left raw for typed decoding.
type Envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Decode reads the envelope and, when out is non-nil, its data.
func Decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
	}
	return env
}
