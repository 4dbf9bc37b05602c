// Package repository provides data access interfaces for the event logger.
package repository

import (
	"context"

	"github.com/KTMO24/github-event-logger/internal/domain"
)

// EventRepository defines the interface for the append-only event log.
// Insertion order is the display order; there is no deletion.
type EventRepository interface {
	Append(ctx context.Context, event *domain.Event) error
	List(ctx context.Context) ([]*domain.Event, error)
	Count(ctx context.Context) (int, error)
}
