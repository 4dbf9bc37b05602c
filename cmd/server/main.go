// Package main provides the entry point for the GitHub event logger server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/KTMO24/github-event-logger/internal/api"
	"github.com/KTMO24/github-event-logger/internal/api/middleware"
	"github.com/KTMO24/github-event-logger/internal/config"
	"github.com/KTMO24/github-event-logger/internal/repository"
	"github.com/KTMO24/github-event-logger/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "event-logger",
	Short: "GitHub-authenticated event logger",
	Long: `event-logger is a small web server that authenticates users through
GitHub OAuth and lets them append entries to a shared event log that
anyone can view.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Optional .env files feed the environment before config is read.
	_ = config.NewEnvLoader(".").LoadEnvFiles(os.Getenv("ENVIRONMENT"))

	// Fail fast: the server must never listen with incomplete configuration.
	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	sessionRepo, err := newSessionRepository(ctx, cfg)
	if err != nil {
		return err
	}

	sessions := middleware.NewSessionManager(sessionRepo, middleware.SessionManagerConfig{
		Secret:     cfg.GetSessionSecret(),
		TTL:        cfg.GetSessionTTL(),
		CookieName: cfg.GetSessionCookieName(),
		Secure:     cfg.IsProduction(),
		Logger:     logger,
	})

	oauthService := services.NewGitHubOAuthService(
		cfg.GetGitHubClientID(),
		cfg.GetGitHubClientSecret(),
		cfg.GetOAuthRedirectURL(),
		logger,
		services.WithCallTimeout(cfg.GetOAuthCallTimeout()),
	)

	broadcaster := services.NewEventBroadcaster(0, logger)
	eventService := services.NewEventService(repository.NewMemoryEventRepository(), broadcaster, logger)

	if os.Getenv("GIN_MODE") == "" && cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.RouterConfig{
		Sessions:     sessions,
		OAuthService: oauthService,
		EventService: eventService,
		Broadcaster:  broadcaster,
		Logger:       logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.GetServerPort(),
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
		IdleTimeout:  cfg.GetIdleTimeout(),
	}

	go func() {
		logger.Info("Starting server", "addr", server.Addr, "environment", cfg.GetEnvironment())
		if serveErr := server.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Error("Server error", "error", serveErr)
			cancel()
		}
	}()

	// Expired sessions are swept in the background; Redis expires its own keys.
	go sweepExpiredSessions(ctx, sessionRepo, logger)

	select {
	case <-sigChan:
		logger.Info("Shutdown signal received")
	case <-ctx.Done():
		logger.Info("Context canceled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func newLogger(cfg *config.AppConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.GetLogLevel() {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newSessionRepository(ctx context.Context, cfg *config.AppConfig) (repository.SessionRepository, error) {
	if cfg.GetSessionStore() != "redis" {
		return repository.NewMemorySessionRepository(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.GetRedisPassword(),
		DB:       cfg.GetRedisDB(),
	})

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis session store unavailable: %w", err)
	}

	return repository.NewRedisSessionRepository(client, "event-logger:session"), nil
}

func sweepExpiredSessions(ctx context.Context, repo repository.SessionRepository, logger *slog.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				logger.Warn("Session sweep failed", "error", err)
			}
		}
	}
}
