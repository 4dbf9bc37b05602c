package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KTMO24/github-event-logger/internal/domain"
)

// redisSessionRepository stores sessions in Redis so the event logger can run
// behind a shared session store. Expiry is delegated to Redis TTLs.
type redisSessionRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSessionRepository creates a Redis-backed session repository.
func NewRedisSessionRepository(client *redis.Client, keyPrefix string) SessionRepository {
	if keyPrefix == "" {
		keyPrefix = "session"
	}
	return &redisSessionRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (r *redisSessionRepository) key(id string) string {
	return fmt.Sprintf("%s:%s", r.keyPrefix, id)
}

// Create creates a new session
func (r *redisSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	return r.write(ctx, session)
}

// GetByID retrieves a session by ID
func (r *redisSessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFoundError("SESSION_NOT_FOUND", "Session not found")
	}
	if err != nil {
		return nil, domain.NewInternalError("SESSION_STORE_UNAVAILABLE", "Failed to read session", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, domain.NewInternalError("SESSION_DECODE_FAILED", "Failed to decode session", err)
	}

	if session.IsExpired() {
		_ = r.client.Del(ctx, r.key(id)).Err()
		return nil, domain.NewNotFoundError("SESSION_EXPIRED", "Session has expired")
	}

	return &session, nil
}

// Save persists changes to an existing session
func (r *redisSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, r.key(session.ID)).Result()
	if err != nil {
		return domain.NewInternalError("SESSION_STORE_UNAVAILABLE", "Failed to check session", err)
	}
	if exists == 0 {
		return domain.NewNotFoundError("SESSION_NOT_FOUND", "Session not found")
	}

	return r.write(ctx, session)
}

// DeleteByID deletes a session by ID
func (r *redisSessionRepository) DeleteByID(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return domain.NewInternalError("SESSION_DELETE_FAILED", "Failed to delete session", err)
	}
	return nil
}

// DeleteExpired is a no-op for Redis, which expires keys on its own.
func (r *redisSessionRepository) DeleteExpired(_ context.Context) error {
	return nil
}

func (r *redisSessionRepository) write(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return domain.NewInternalError("SESSION_ENCODE_FAILED", "Failed to encode session", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return domain.NewValidationError("expires_at", "Session is already expired", nil)
	}

	if err := r.client.Set(ctx, r.key(session.ID), data, ttl).Err(); err != nil {
		return domain.NewInternalError("SESSION_STORE_UNAVAILABLE", "Failed to store session", err)
	}
	return nil
}
