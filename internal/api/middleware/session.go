// Package middleware provides HTTP middleware functions.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/KTMO24/github-event-logger/internal/domain"
	"github.com/KTMO24/github-event-logger/internal/repository"
)

// SessionContextKey is the key used to store the session in request context.
const SessionContextKey = "session"

// SessionManager resolves browser sessions from signed cookies and persists
// them through a SessionRepository. The cookie carries only the session ID,
// signed as an HS256 JWT with the session secret.
type SessionManager struct {
	repo       repository.SessionRepository
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	logger     *slog.Logger
}

// SessionManagerConfig holds configuration for the session manager.
type SessionManagerConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
	Logger     *slog.Logger
}

// NewSessionManager creates a new session manager.
func NewSessionManager(repo repository.SessionRepository, cfg SessionManagerConfig) *SessionManager {
	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &SessionManager{
		repo:       repo,
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		logger:     cfg.Logger,
	}
}

// Middleware resolves the session for the current request, if any. A missing,
// tampered, or expired cookie is treated as no session.
func (m *SessionManager) Middleware() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		cookie, err := c.Cookie(m.cookieName)
		if err == nil && cookie != "" {
			if id, verifyErr := m.verifyCookie(cookie); verifyErr == nil {
				if session, getErr := m.repo.GetByID(c.Request.Context(), id); getErr == nil {
					c.Set(SessionContextKey, session)
				}
			}
		}
		c.Next()
	})
}

// Ensure returns the request's session, creating and persisting a fresh one
// (and setting its cookie) when none exists yet.
func (m *SessionManager) Ensure(c *gin.Context) (*domain.Session, error) {
	if session := CurrentSession(c); session != nil {
		return session, nil
	}

	session := domain.NewSession(uuid.New().String(), m.ttl)
	if err := m.repo.Create(c.Request.Context(), session); err != nil {
		return nil, domain.NewInternalError("SESSION_CREATE_FAILED", "Failed to create session", err)
	}

	token, err := m.signCookie(session)
	if err != nil {
		return nil, domain.NewInternalError("SESSION_COOKIE_SIGN_FAILED", "Failed to sign session cookie", err)
	}

	c.SetCookie(m.cookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
	c.Set(SessionContextKey, session)
	return session, nil
}

// Save persists session mutations made by a handler.
func (m *SessionManager) Save(c *gin.Context, session *domain.Session) error {
	if err := m.repo.Save(c.Request.Context(), session); err != nil {
		return domain.NewInternalError("SESSION_SAVE_FAILED", "Failed to save session", err)
	}
	return nil
}

// Destroy removes the session from the store and expires its cookie.
func (m *SessionManager) Destroy(c *gin.Context) error {
	session := CurrentSession(c)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
	c.Set(SessionContextKey, nil)

	if session == nil {
		return nil
	}

	if err := m.repo.DeleteByID(c.Request.Context(), session.ID); err != nil {
		return domain.NewInternalError("SESSION_DESTROY_FAILED", "Could not log out", err)
	}
	return nil
}

// RequireUser rejects requests whose session has no authenticated user.
func (m *SessionManager) RequireUser() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Header("Content-Type", "text/html; charset=utf-8")
			c.String(http.StatusUnauthorized, `<h1>Please <a href="/">login</a> first.</h1>`)
			c.Abort()
			return
		}
		c.Next()
	})
}

// CurrentSession extracts the session from the gin context, or nil.
func CurrentSession(c *gin.Context) *domain.Session {
	if value, exists := c.Get(SessionContextKey); exists {
		if session, ok := value.(*domain.Session); ok {
			return session
		}
	}
	return nil
}

// CurrentUser extracts the authenticated user from the gin context, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	if session := CurrentSession(c); session != nil {
		return session.User
	}
	return nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

func (m *SessionManager) signCookie(session *domain.Session) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.ID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *SessionManager) verifyCookie(cookie string) (string, error) {
	token, err := jwt.ParseWithClaims(cookie, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.NewAuthenticationError("INVALID_SIGNING_METHOD", "Unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.NewAuthenticationError("INVALID_SESSION_COOKIE", "Invalid session cookie")
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || claims.Subject == "" {
		return "", domain.NewAuthenticationError("INVALID_SESSION_COOKIE", "Invalid session cookie")
	}
	return claims.Subject, nil
}
