package domain

import (
	"time"
)

// Event is a single immutable record in the shared event log.
// User is nil when the record was submitted anonymously.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	User      *string   `json:"user"`
	IP        string    `json:"ip"`
	Details   string    `json:"details"`
}

// NewEvent creates an event with a server-assigned timestamp.
func NewEvent(eventType, details string, user *string, ip string) *Event {
	return &Event{
		Timestamp: time.Now(),
		Type:      eventType,
		User:      user,
		IP:        ip,
		Details:   details,
	}
}

// Validate validates the event
func (e *Event) Validate() error {
	if e.Type == "" {
		return NewValidationError("type", "Event type is required", nil)
	}
	if e.Details == "" {
		return NewValidationError("details", "Event details are required", nil)
	}
	return nil
}

// Author returns the submitting user's login, or "Not Logged In" for
// anonymous records. Used by the HTML views.
func (e *Event) Author() string {
	if e.User == nil {
		return "Not Logged In"
	}
	return *e.User
}
