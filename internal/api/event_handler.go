package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KTMO24/github-event-logger/internal/api/middleware"
	"github.com/KTMO24/github-event-logger/internal/domain"
	"github.com/KTMO24/github-event-logger/internal/services"
)

// EventHandler handles event log pages and submissions.
type EventHandler struct {
	eventService *services.EventService
	logger       *slog.Logger
}

// NewEventHandler creates a new event handler.
func NewEventHandler(eventService *services.EventService, logger *slog.Logger) *EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandler{
		eventService: eventService,
		logger:       logger,
	}
}

// ListEvents renders the public event log in insertion order.
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.eventService.ListEvents(c.Request.Context())
	if err != nil {
		TextError(c, h.logger, err)
		return
	}

	c.HTML(http.StatusOK, "events", gin.H{
		"Title":  "Logged Events",
		"Events": events,
	})
}

// NewEventForm renders the submission form. Routing gates it on an
// authenticated session.
func (h *EventHandler) NewEventForm(c *gin.Context) {
	c.HTML(http.StatusOK, "new_event", gin.H{
		"Title": "Create a New Event",
	})
}

// CreateEvent appends one record to the log. The body may be a form or JSON;
// the author is the session's login when present, anonymous otherwise.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req services.LogEventRequest
	if err := c.ShouldBind(&req); err != nil {
		TextError(c, h.logger, domain.NewValidationError("MALFORMED_EVENT_BODY", "Missing event type or details", nil))
		return
	}

	if user := middleware.CurrentUser(c); user != nil {
		login := user.Login
		req.User = &login
	}
	req.IP = c.ClientIP()

	if _, err := h.eventService.LogEvent(c.Request.Context(), &req); err != nil {
		TextError(c, h.logger, err)
		return
	}

	c.Redirect(http.StatusFound, "/events")
}

// ListEventsJSON returns the event log as JSON.
func (h *EventHandler) ListEventsJSON(c *gin.Context) {
	events, err := h.eventService.ListEvents(c.Request.Context())
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// RegisterEventRoutes registers the event log routes.
func RegisterEventRoutes(r *gin.Engine, handler *EventHandler, sessions *middleware.SessionManager) {
	r.GET("/events", handler.ListEvents)
	r.POST("/events", handler.CreateEvent)
	r.GET("/new-event", sessions.RequireUser(), handler.NewEventForm)
	r.GET("/api/events", handler.ListEventsJSON)
}
