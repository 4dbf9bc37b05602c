// Package config provides application configuration management.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config defines the application configuration interface.
type Config interface {
	GetServerPort() string
	GetGitHubClientID() string
	GetGitHubClientSecret() string
	GetSessionSecret() string
	GetEnvironment() string
	IsProduction() bool
}

// SessionConfig interface for session-specific configuration.
type SessionConfig interface {
	GetSessionSecret() string
	GetSessionTTL() time.Duration
	GetSessionCookieName() string
	GetSessionStore() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

// OAuthConfig interface for OAuth-specific configuration.
type OAuthConfig interface {
	GetGitHubClientID() string
	GetGitHubClientSecret() string
	GetOAuthRedirectURL() string
	GetOAuthCallTimeout() time.Duration
}

// AppConfig implements all configuration interfaces.
type AppConfig struct {
	serverPort         string
	githubClientID     string
	githubClientSecret string
	sessionSecret      string
	sessionTTL         time.Duration
	sessionCookieName  string
	sessionStore       string
	redisAddr          string
	redisPassword      string
	redisDB            int
	oauthRedirectURL   string
	oauthCallTimeout   time.Duration
	environment        string
	logLevel           string
	readTimeout        time.Duration
	writeTimeout       time.Duration
	idleTimeout        time.Duration
}

// NewConfig creates a new configuration instance from environment variables.
func NewConfig() *AppConfig {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_COOKIE_NAME", "session")
	v.SetDefault("SESSION_STORE", "memory")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("OAUTH_CALL_TIMEOUT", "10s")
	v.SetDefault("READ_TIMEOUT", "15s")
	v.SetDefault("WRITE_TIMEOUT", "15s")
	v.SetDefault("IDLE_TIMEOUT", "60s")

	return &AppConfig{
		serverPort:         v.GetString("PORT"),
		githubClientID:     v.GetString("GITHUB_CLIENT_ID"),
		githubClientSecret: v.GetString("GITHUB_CLIENT_SECRET"),
		sessionSecret:      v.GetString("SESSION_SECRET"),
		sessionTTL:         v.GetDuration("SESSION_TTL"),
		sessionCookieName:  v.GetString("SESSION_COOKIE_NAME"),
		sessionStore:       v.GetString("SESSION_STORE"),
		redisAddr:          v.GetString("REDIS_ADDR"),
		redisPassword:      v.GetString("REDIS_PASSWORD"),
		redisDB:            v.GetInt("REDIS_DB"),
		oauthRedirectURL:   v.GetString("OAUTH_REDIRECT_URL"),
		oauthCallTimeout:   v.GetDuration("OAUTH_CALL_TIMEOUT"),
		environment:        v.GetString("ENVIRONMENT"),
		logLevel:           v.GetString("LOG_LEVEL"),
		readTimeout:        v.GetDuration("READ_TIMEOUT"),
		writeTimeout:       v.GetDuration("WRITE_TIMEOUT"),
		idleTimeout:        v.GetDuration("IDLE_TIMEOUT"),
	}
}

// GetServerPort returns the server port configuration.
func (c *AppConfig) GetServerPort() string {
	return c.serverPort
}

// GetGitHubClientID returns the OAuth client identifier.
func (c *AppConfig) GetGitHubClientID() string {
	return c.githubClientID
}

// GetGitHubClientSecret returns the OAuth client secret.
func (c *AppConfig) GetGitHubClientSecret() string {
	return c.githubClientSecret
}

// GetSessionSecret returns the session-signing secret.
func (c *AppConfig) GetSessionSecret() string {
	return c.sessionSecret
}

// GetSessionTTL returns the session lifetime.
func (c *AppConfig) GetSessionTTL() time.Duration {
	return c.sessionTTL
}

// GetSessionCookieName returns the session cookie name.
func (c *AppConfig) GetSessionCookieName() string {
	return c.sessionCookieName
}

// GetSessionStore returns the session store backend ("memory" or "redis").
func (c *AppConfig) GetSessionStore() string {
	return c.sessionStore
}

// GetRedisAddr returns the Redis address.
func (c *AppConfig) GetRedisAddr() string {
	return c.redisAddr
}

// GetRedisPassword returns the Redis password.
func (c *AppConfig) GetRedisPassword() string {
	return c.redisPassword
}

// GetRedisDB returns the Redis database index.
func (c *AppConfig) GetRedisDB() int {
	return c.redisDB
}

// GetOAuthRedirectURL returns the OAuth callback URL registered with GitHub.
func (c *AppConfig) GetOAuthRedirectURL() string {
	return c.oauthRedirectURL
}

// GetOAuthCallTimeout returns the timeout for outbound provider calls.
func (c *AppConfig) GetOAuthCallTimeout() time.Duration {
	return c.oauthCallTimeout
}

// GetEnvironment returns the application environment configuration.
func (c *AppConfig) GetEnvironment() string {
	return c.environment
}

// GetLogLevel returns the log level configuration.
func (c *AppConfig) GetLogLevel() string {
	return c.logLevel
}

// IsProduction returns true if the application runs in production.
func (c *AppConfig) IsProduction() bool {
	return c.environment == "production"
}

// GetReadTimeout returns the server read timeout configuration.
func (c *AppConfig) GetReadTimeout() time.Duration {
	return c.readTimeout
}

// GetWriteTimeout returns the server write timeout configuration.
func (c *AppConfig) GetWriteTimeout() time.Duration {
	return c.writeTimeout
}

// GetIdleTimeout returns the server idle timeout configuration.
func (c *AppConfig) GetIdleTimeout() time.Duration {
	return c.idleTimeout
}

// Validate checks that the required environment values are present. The
// process must not start serving when any of them is missing.
func (c *AppConfig) Validate() error {
	if c.githubClientID == "" {
		return fmt.Errorf("GITHUB_CLIENT_ID is required")
	}

	if c.githubClientSecret == "" {
		return fmt.Errorf("GITHUB_CLIENT_SECRET is required")
	}

	if c.sessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	if len(c.sessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}

	if c.serverPort == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.sessionStore != "memory" && c.sessionStore != "redis" {
		return fmt.Errorf("SESSION_STORE must be one of: memory, redis")
	}

	return nil
}
