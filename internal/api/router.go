package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/KTMO24/github-event-logger/internal/api/middleware"
	"github.com/KTMO24/github-event-logger/internal/services"
	"github.com/KTMO24/github-event-logger/web"
)

// RouterConfig carries the wired services the router depends on.
type RouterConfig struct {
	Sessions     *middleware.SessionManager
	OAuthService *services.GitHubOAuthService
	EventService *services.EventService
	Broadcaster  *services.EventBroadcaster
	Logger       *slog.Logger
}

// NewRouter configures the gin engine with all middleware and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(web.Templates())

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.DefaultLoggingMiddleware())
	router.Use(middleware.DefaultRecoveryMiddleware())
	router.Use(middleware.DefaultCORSMiddleware())
	router.Use(cfg.Sessions.Middleware())

	router.GET("/", Home)
	router.GET("/healthz", Health)
	router.GET("/ping", Ping)

	RegisterAuthRoutes(router, NewAuthHandler(cfg.OAuthService, cfg.Sessions, cfg.Logger))
	RegisterEventRoutes(router, NewEventHandler(cfg.EventService, cfg.Logger), cfg.Sessions)
	RegisterWebSocketRoutes(router, NewWebSocketHandler(cfg.Broadcaster, cfg.Logger))

	return router
}
