package services

import (
	"context"
	"log/slog"

	"github.com/KTMO24/github-event-logger/internal/domain"
	"github.com/KTMO24/github-event-logger/internal/repository"
)

// EventService validates and records event submissions.
type EventService struct {
	repo        repository.EventRepository
	broadcaster *EventBroadcaster
	logger      *slog.Logger
}

// NewEventService creates a new event service. The broadcaster is optional.
func NewEventService(repo repository.EventRepository, broadcaster *EventBroadcaster, logger *slog.Logger) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// LogEventRequest contains a submitted event. User is the authenticated
// login, or nil for anonymous submissions.
type LogEventRequest struct {
	Type    string  `json:"type" form:"type"`
	Details string  `json:"details" form:"details"`
	User    *string `json:"-" form:"-"`
	IP      string  `json:"-" form:"-"`
}

// LogEvent appends one record to the event log with a server-assigned
// timestamp. Failed validation leaves the log untouched.
func (s *EventService) LogEvent(ctx context.Context, req *LogEventRequest) (*domain.Event, error) {
	if req.Type == "" || req.Details == "" {
		return nil, domain.NewValidationError("MISSING_EVENT_FIELDS", "Missing event type or details", map[string]interface{}{
			"field": missingEventField(req),
		})
	}

	event := domain.NewEvent(req.Type, req.Details, req.User, req.IP)

	if err := s.repo.Append(ctx, event); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(event)
	}

	s.logger.Info("Event logged",
		"type", event.Type,
		"user", event.Author(),
		"ip", event.IP)

	return event, nil
}

// ListEvents returns the full log in insertion order.
func (s *EventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return s.repo.List(ctx)
}

func missingEventField(req *LogEventRequest) string {
	if req.Type == "" {
		return "type"
	}
	return "details"
}
