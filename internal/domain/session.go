package domain

import (
	"time"
)

// Session represents server-side browser session state. The browser holds
// only the session ID, delivered as a signed cookie.
type Session struct {
	ID         string    `json:"id"`
	OAuthState string    `json:"oauth_state,omitempty"`
	User       *User     `json:"user,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// NewSession creates a session with the given ID and lifetime.
func NewSession(id string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Validate validates the session
func (s *Session) Validate() error {
	if s.ID == "" {
		return NewValidationError("id", "Session ID is required", nil)
	}
	return nil
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsAuthenticated reports whether a user identity has been attached.
func (s *Session) IsAuthenticated() bool {
	return s.User != nil
}

// ConsumeOAuthState returns the stored state nonce and clears it. A nonce is
// valid for exactly one callback attempt.
func (s *Session) ConsumeOAuthState() string {
	state := s.OAuthState
	s.OAuthState = ""
	return state
}
