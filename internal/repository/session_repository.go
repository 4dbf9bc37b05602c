package repository

import (
	"context"

	"github.com/KTMO24/github-event-logger/internal/domain"
)

// SessionRepository defines the interface for storing browser sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	DeleteByID(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) error
}
