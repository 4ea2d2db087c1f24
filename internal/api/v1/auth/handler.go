package auth

import (
	"aidirectory-backend/config"
	"aidirectory-backend/internal/api/v1/common"
	"aidirectory-backend/internal/api/v1/user"
	"aidirectory-backend/internal/githubapi"
	"aidirectory-backend/internal/middleware"
	"aidirectory-backend/internal/services"
	"aidirectory-backend/internal/utils"
	"aidirectory-backend/pkg/logger"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const (
	stateCookie    = "oauth_state"
	stateCookieTTL = 600
)

type profileFetcher func(ctx context.Context, httpClient *http.Client) (*githubapi.Profile, error)

// Handler serves the GitHub OAuth sign-in flow.
type Handler struct {
	cfg          *config.Config
	oauth        *oauth2.Config
	fetchProfile profileFetcher
}

func NewHandler(cfg *config.Config) *Handler {
	return &Handler{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.GitHubRedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		fetchProfile: githubapi.FetchProfile,
	}
}

// Login godoc
// @Summary Start GitHub sign-in
// @Description Redirects to GitHub's authorization page
// @Tags auth
// @Success 307 {string} string "Redirect to GitHub"
// @Failure 503 {object} utils.Response
// @Router /auth/github/login [get]
func (h *Handler) Login(c *gin.Context) {
	if h.oauth.ClientID == "" {
		c.JSON(http.StatusServiceUnavailable, utils.NewErrorResponse(http.StatusServiceUnavailable, "GitHub sign-in is not configured"))
		return
	}

	state := uuid.NewString()
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieTTL, "/", "", secure, true)
	c.Redirect(http.StatusTemporaryRedirect, h.oauth.AuthCodeURL(state))
}

// Callback godoc
// @Summary Finish GitHub sign-in
// @Description Exchanges the authorization code, stores the user and issues a token
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "OAuth state"
// @Success 200 {object} utils.Response{data=user.UserResponse}
// @Success 302 {string} string "Redirect to the frontend with the token"
// @Failure 400 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Router /auth/github/callback [get]
func (h *Handler) Callback(c *gin.Context) {
	expected, err := c.Cookie(stateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid OAuth state"))
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", c.Request.TLS != nil, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Missing authorization code"))
		return
	}

	ctx := c.Request.Context()
	tok, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		logger.Log.Warn("GitHub code exchange failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, "GitHub authorization failed"))
		return
	}

	profile, err := h.fetchProfile(ctx, h.oauth.Client(ctx, tok))
	if err != nil {
		logger.Log.Warn("Fetching GitHub profile failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, "Failed to fetch GitHub profile"))
		return
	}

	u, err := services.UpsertGitHubUser(profile, h.cfg.IsAdminLogin(profile.Login))
	if err != nil {
		common.RespondError(c, err, "Failed to sign in")
		return
	}

	token, err := utils.GenerateToken(u.ID, u.Login, u.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Could not generate token"))
		return
	}

	logger.Log.Info("User signed in", zap.Uint("user_id", u.ID), zap.String("login", u.Login))

	if h.cfg.FrontendURL != "" {
		c.Redirect(http.StatusFound, strings.TrimRight(h.cfg.FrontendURL, "/")+"/auth/callback#token="+url.QueryEscape(token))
		return
	}

	resp := user.NewUserResponse(*u)
	resp.Token = token
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Logged in successfully", resp))
}

// Logout godoc
// @Summary Log out a user
// @Description Invalidate the user's current token
// @Tags auth
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 503 {object} utils.Response
// @Router /auth/logout [post]
func Logout(c *gin.Context) {
	tokenString, claims := middleware.CurrentToken(c)
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	if err := services.AddToDenylist(tokenString, utils.TokenRemaining(claims)); err != nil {
		common.RespondError(c, err, "Failed to denylist token")
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Logged out successfully", nil))
}
