package repository

import (
	"context"
	"sync"

	"github.com/KTMO24/github-event-logger/internal/domain"
)

// memoryEventRepository provides the default in-process implementation of
// EventRepository. The log lives for the lifetime of the process.
type memoryEventRepository struct {
	events []*domain.Event
	mutex  sync.RWMutex
}

// NewMemoryEventRepository creates a new in-memory event repository.
func NewMemoryEventRepository() EventRepository {
	return &memoryEventRepository{
		events: make([]*domain.Event, 0),
	}
}

// Append appends one event to the end of the log
func (r *memoryEventRepository) Append(_ context.Context, event *domain.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.events = append(r.events, event)
	return nil
}

// List returns all events in insertion order
func (r *memoryEventRepository) List(_ context.Context) ([]*domain.Event, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	// Copy so callers never observe later appends through the slice.
	out := make([]*domain.Event, len(r.events))
	copy(out, r.events)
	return out, nil
}

// Count returns the number of logged events
func (r *memoryEventRepository) Count(_ context.Context) (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.events), nil
}
