package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KTMO24/github-event-logger/internal/domain"
	"github.com/KTMO24/github-event-logger/internal/repository"
)

func TestEventServiceLogEvent(t *testing.T) {
	t.Run("ValidSubmission", func(t *testing.T) {
		service := NewEventService(repository.NewMemoryEventRepository(), nil, nil)
		ctx := context.Background()

		login := "octocat"
		event, err := service.LogEvent(ctx, &LogEventRequest{
			Type:    "repo_push",
			Details: "Pushed changes to main branch",
			User:    &login,
			IP:      "192.0.2.1",
		})
		require.NoError(t, err)

		assert.Equal(t, "repo_push", event.Type)
		assert.Equal(t, "octocat", event.Author())
		assert.Equal(t, "192.0.2.1", event.IP)
		assert.False(t, event.Timestamp.IsZero())
	})

	t.Run("AnonymousSubmission", func(t *testing.T) {
		service := NewEventService(repository.NewMemoryEventRepository(), nil, nil)
		ctx := context.Background()

		event, err := service.LogEvent(ctx, &LogEventRequest{Type: "repo_push", Details: "x"})
		require.NoError(t, err)
		assert.Nil(t, event.User)
	})

	t.Run("MissingFieldsRejected", func(t *testing.T) {
		repo := repository.NewMemoryEventRepository()
		service := NewEventService(repo, nil, nil)
		ctx := context.Background()

		tests := []*LogEventRequest{
			{Type: "", Details: "x"},
			{Type: "repo_push", Details: ""},
			{},
		}

		for _, req := range tests {
			_, err := service.LogEvent(ctx, req)
			require.Error(t, err)

			var domainErr *domain.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domain.ValidationError, domainErr.Type)
		}

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count, "rejected submissions must not alter the log")
	})

	t.Run("ListReturnsSubmissionOrder", func(t *testing.T) {
		service := NewEventService(repository.NewMemoryEventRepository(), nil, nil)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			_, err := service.LogEvent(ctx, &LogEventRequest{
				Type:    "repo_push",
				Details: fmt.Sprintf("details-%d", i),
			})
			require.NoError(t, err)
		}

		events, err := service.ListEvents(ctx)
		require.NoError(t, err)
		require.Len(t, events, 5)
		for i, event := range events {
			assert.Equal(t, fmt.Sprintf("details-%d", i), event.Details)
		}
	})

	t.Run("BroadcastsAppendedEvents", func(t *testing.T) {
		broadcaster := NewEventBroadcaster(4, nil)
		service := NewEventService(repository.NewMemoryEventRepository(), broadcaster, nil)
		ctx := context.Background()

		id, ch := broadcaster.Subscribe()
		defer broadcaster.Unsubscribe(id)

		_, err := service.LogEvent(ctx, &LogEventRequest{Type: "repo_push", Details: "x"})
		require.NoError(t, err)

		select {
		case event := <-ch:
			assert.Equal(t, "repo_push", event.Type)
		default:
			t.Fatal("expected broadcast event")
		}
	})
}
