package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KTMO24/github-event-logger/internal/domain"
)

func TestEventBroadcaster(t *testing.T) {
	t.Run("DeliversToAllSubscribers", func(t *testing.T) {
		b := NewEventBroadcaster(4, nil)

		id1, ch1 := b.Subscribe()
		id2, ch2 := b.Subscribe()
		defer b.Unsubscribe(id1)
		defer b.Unsubscribe(id2)

		assert.Equal(t, 2, b.SubscriberCount())

		event := domain.NewEvent("repo_push", "x", nil, "")
		b.Broadcast(event)

		assert.Equal(t, event, <-ch1)
		assert.Equal(t, event, <-ch2)
	})

	t.Run("UnsubscribeClosesChannel", func(t *testing.T) {
		b := NewEventBroadcaster(4, nil)

		id, ch := b.Subscribe()
		b.Unsubscribe(id)

		_, open := <-ch
		assert.False(t, open)
		assert.Equal(t, 0, b.SubscriberCount())
	})

	t.Run("UnsubscribeUnknownIDIsNoop", func(t *testing.T) {
		b := NewEventBroadcaster(4, nil)
		b.Unsubscribe("missing")
		assert.Equal(t, 0, b.SubscriberCount())
	})

	t.Run("SlowSubscriberDropsEvents", func(t *testing.T) {
		b := NewEventBroadcaster(1, nil)

		id, ch := b.Subscribe()
		defer b.Unsubscribe(id)

		b.Broadcast(domain.NewEvent("first", "x", nil, ""))
		b.Broadcast(domain.NewEvent("second", "x", nil, ""))

		event := <-ch
		require.Equal(t, "first", event.Type)

		select {
		case <-ch:
			t.Fatal("second event should have been dropped")
		default:
		}
	})
}
