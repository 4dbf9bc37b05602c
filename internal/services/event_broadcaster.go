package services

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/KTMO24/github-event-logger/internal/domain"
)

const defaultEventQueueSize = 64

// EventBroadcaster fans out newly appended events to live subscribers,
// such as websocket connections on the event feed.
type EventBroadcaster struct {
	subscribers map[string]chan *domain.Event
	queueSize   int
	mu          sync.RWMutex
	logger      *slog.Logger
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(queueSize int, logger *slog.Logger) *EventBroadcaster {
	if queueSize <= 0 {
		queueSize = defaultEventQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBroadcaster{
		subscribers: make(map[string]chan *domain.Event),
		queueSize:   queueSize,
		logger:      logger,
	}
}

// Subscribe registers a new subscriber and returns its ID and event channel.
// The channel is closed on Unsubscribe.
func (b *EventBroadcaster) Subscribe() (string, <-chan *domain.Event) {
	id := uuid.New().String()
	ch := make(chan *domain.Event, b.queueSize)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	b.logger.Debug("Event feed subscriber added", "subscriber_id", id)
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *EventBroadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, exists := b.subscribers[id]
	if !exists {
		return
	}
	delete(b.subscribers, id)
	close(ch)

	b.logger.Debug("Event feed subscriber removed", "subscriber_id", id)
}

// Broadcast delivers an event to every subscriber without blocking. A
// subscriber that cannot keep up loses the event; the log itself is the
// source of truth.
func (b *EventBroadcaster) Broadcast(event *domain.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.logger.Warn("Dropping event for slow subscriber",
				"subscriber_id", id,
				"event_type", event.Type)
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *EventBroadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
