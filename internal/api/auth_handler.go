package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KTMO24/github-event-logger/internal/api/middleware"
	"github.com/KTMO24/github-event-logger/internal/domain"
	"github.com/KTMO24/github-event-logger/internal/services"
)

// AuthHandler handles the GitHub login flow and logout.
type AuthHandler struct {
	oauthService *services.GitHubOAuthService
	sessions     *middleware.SessionManager
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(oauthService *services.GitHubOAuthService, sessions *middleware.SessionManager, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		oauthService: oauthService,
		sessions:     sessions,
		logger:       logger,
	}
}

// Login redirects the browser to GitHub's authorize endpoint, binding a
// fresh state nonce to the session.
func (h *AuthHandler) Login(c *gin.Context) {
	session, err := h.sessions.Ensure(c)
	if err != nil {
		TextError(c, h.logger, err)
		return
	}

	authURL, err := h.oauthService.InitiateAuth(session)
	if err != nil {
		TextError(c, h.logger, err)
		return
	}

	if err := h.sessions.Save(c, session); err != nil {
		TextError(c, h.logger, err)
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// Callback completes the handshake. 403 on state mismatch, 401 on token
// exchange failure, 500 on identity fetch failure, redirect home on success.
func (h *AuthHandler) Callback(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if session == nil {
		TextError(c, h.logger, domain.NewAuthorizationError("OAUTH_STATE_MISMATCH", "Invalid state parameter"))
		return
	}

	code := c.Query("code")
	state := c.Query("state")

	user, callbackErr := h.oauthService.HandleCallback(c.Request.Context(), session, code, state)

	// The consumed nonce (and on success, the user) must be persisted even
	// when the handshake failed, so a stale nonce cannot be replayed.
	if err := h.sessions.Save(c, session); err != nil {
		TextError(c, h.logger, err)
		return
	}

	if callbackErr != nil {
		TextError(c, h.logger, callbackErr)
		return
	}

	h.logger.Info("User logged in", "login", user.Login)
	c.Redirect(http.StatusFound, "/")
}

// Logout destroys the session and redirects home.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Destroy(c); err != nil {
		TextError(c, h.logger, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// RegisterAuthRoutes registers the authentication routes.
func RegisterAuthRoutes(r *gin.Engine, handler *AuthHandler) {
	r.GET("/auth/github", handler.Login)
	r.GET("/auth/github/callback", handler.Callback)
	r.GET("/logout", handler.Logout)
}
