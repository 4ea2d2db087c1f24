package auth

import (
	"aidirectory-backend/config"
	"aidirectory-backend/internal/api/apitest"
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/githubapi"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/services"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestHandler(t *testing.T, cfg *config.Config) (*Handler, *gin.Engine) {
	t.Helper()
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"gh-token","token_type":"bearer"}`))
	}))
	t.Cleanup(tokenSrv.Close)

	cfg.GitHubClientID = "client-id"
	cfg.GitHubClientSecret = "client-secret"
	h := NewHandler(cfg)
	h.oauth.Endpoint = oauth2.Endpoint{AuthURL: "https://github.com/login/oauth/authorize", TokenURL: tokenSrv.URL}
	h.fetchProfile = func(ctx context.Context, _ *http.Client) (*githubapi.Profile, error) {
		return &githubapi.Profile{ID: 7, Login: "Octocat", Name: "The Octocat"}, nil
	}

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), h)
	return h, r
}

func callback(r http.Handler, query, cookieState string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/auth/github/callback?"+query, nil)
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: stateCookie, Value: cookieState})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginRedirectsWithState(t *testing.T) {
	apitest.Setup(t)
	_, r := newTestHandler(t, &config.Config{})

	w := apitest.Do(r, http.MethodGet, "/api/v1/auth/github/login", "", nil)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "github.com", loc.Host)
	assert.Equal(t, "client-id", loc.Query().Get("client_id"))

	var state string
	for _, c := range w.Result().Cookies() {
		if c.Name == stateCookie {
			state = c.Value
			assert.True(t, c.HttpOnly)
		}
	}
	require.NotEmpty(t, state)
	assert.Equal(t, state, loc.Query().Get("state"))
}

func TestLoginNotConfigured(t *testing.T) {
	apitest.Setup(t)
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), NewHandler(&config.Config{}))

	w := apitest.Do(r, http.MethodGet, "/api/v1/auth/github/login", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCallbackRejectsBadState(t *testing.T) {
	apitest.Setup(t)
	_, r := newTestHandler(t, &config.Config{})

	assert.Equal(t, http.StatusBadRequest, callback(r, "code=abc&state=forged", "expected").Code)
	assert.Equal(t, http.StatusBadRequest, callback(r, "code=abc&state=expected", "").Code)
	assert.Equal(t, http.StatusBadRequest, callback(r, "state=expected", "expected").Code)
}

func TestCallbackIssuesTokenAndPromotesAdmins(t *testing.T) {
	apitest.Setup(t)
	_, r := newTestHandler(t, &config.Config{AdminGitHubLogins: []string{"octocat"}})

	w := callback(r, "code=abc&state=s1", "s1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		Login string `json:"login"`
		Role  string `json:"role"`
		Token string `json:"token"`
	}
	apitest.Decode(t, w, &got)
	assert.Equal(t, "Octocat", got.Login)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.NotEmpty(t, got.Token)

	var count int64
	require.NoError(t, database.DB.Model(&models.User{}).Where("github_id = ?", 7).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCallbackRedirectsToFrontend(t *testing.T) {
	apitest.Setup(t)
	_, r := newTestHandler(t, &config.Config{FrontendURL: "https://directory.example/"})

	w := callback(r, "code=abc&state=s1", "s1")
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "https://directory.example/auth/callback#token="))
}

func TestLogout(t *testing.T) {
	apitest.Setup(t)
	_, r := newTestHandler(t, &config.Config{})
	_, token := apitest.CreateUser(t, "leaver", models.RoleUser)

	w := apitest.Do(r, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	revoked, err := services.IsDenylisted(token)
	require.NoError(t, err)
	assert.True(t, revoked)

	w = apitest.Do(r, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
