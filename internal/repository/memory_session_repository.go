package repository

import (
	"context"
	"sync"
	"time"

	"github.com/KTMO24/github-event-logger/internal/domain"
)

// memorySessionRepository provides an in-memory implementation of
// SessionRepository.
type memorySessionRepository struct {
	sessions map[string]*domain.Session
	mutex    sync.RWMutex
}

// NewMemorySessionRepository creates a new in-memory session repository.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]*domain.Session),
	}
}

// Create creates a new session
func (r *memorySessionRepository) Create(_ context.Context, session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.sessions[session.ID] = session
	return nil
}

// GetByID retrieves a session by ID
func (r *memorySessionRepository) GetByID(_ context.Context, id string) (*domain.Session, error) {
	r.mutex.RLock()
	session, exists := r.sessions[id]
	r.mutex.RUnlock()

	if !exists {
		return nil, domain.NewNotFoundError("SESSION_NOT_FOUND", "Session not found")
	}

	if session.IsExpired() {
		r.mutex.Lock()
		delete(r.sessions, id)
		r.mutex.Unlock()
		return nil, domain.NewNotFoundError("SESSION_EXPIRED", "Session has expired")
	}

	return session, nil
}

// Save persists changes to an existing session
func (r *memorySessionRepository) Save(_ context.Context, session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.sessions[session.ID]; !exists {
		return domain.NewNotFoundError("SESSION_NOT_FOUND", "Session not found")
	}

	r.sessions[session.ID] = session
	return nil
}

// DeleteByID deletes a session by ID
func (r *memorySessionRepository) DeleteByID(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.sessions, id)
	return nil
}

// DeleteExpired deletes all expired sessions
func (r *memorySessionRepository) DeleteExpired(_ context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now()
	for id, session := range r.sessions {
		if session.ExpiresAt.Before(now) {
			delete(r.sessions, id)
		}
	}

	return nil
}
