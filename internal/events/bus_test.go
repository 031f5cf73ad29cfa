package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveOne(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestPublishSubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	ctx := context.Background()

	ch, cleanup := bus.Subscribe(ctx, Filter{}, 0)
	defer cleanup()

	require.NoError(t, bus.Publish(ctx, Event{Type: EventRunStarted, SessionID: "s1"}))

	got := receiveOne(t, ch)
	assert.Equal(t, EventRunStarted, got.Type)
	assert.Equal(t, "s1", got.SessionID)
	assert.False(t, got.Timestamp.IsZero())
}

func TestFilterByType(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	ctx := context.Background()

	ch, cleanup := bus.Subscribe(ctx, Filter{Types: []EventType{EventRunTerminal}}, 0)
	defer cleanup()

	require.NoError(t, bus.Publish(ctx, Event{Type: EventRunAttempt}))
	require.NoError(t, bus.Publish(ctx, Event{Type: EventRunTerminal}))

	got := receiveOne(t, ch)
	assert.Equal(t, EventRunTerminal, got.Type)
	assert.Empty(t, ch)
}

func TestFilterBySession(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	ctx := context.Background()

	ch, cleanup := bus.Subscribe(ctx, Filter{SessionID: "mine"}, 0)
	defer cleanup()

	require.NoError(t, bus.Publish(ctx, Event{Type: EventRunStarted, SessionID: "other"}))
	require.NoError(t, bus.Publish(ctx, Event{Type: EventRunStarted, SessionID: "mine"}))

	got := receiveOne(t, ch)
	assert.Equal(t, "mine", got.SessionID)
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	ctx := context.Background()

	_, cleanup := bus.Subscribe(ctx, Filter{}, 1)
	defer cleanup()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			bus.Publish(ctx, Event{Type: EventRunAttempt})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	_, cleanup := bus.Subscribe(context.Background(), Filter{}, 0)
	assert.Equal(t, 1, bus.SubscriberCount())

	cleanup()
	assert.Equal(t, 0, bus.SubscriberCount())

	cleanup()
	assert.Equal(t, 0, bus.SubscriberCount())
}

func TestClose(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	ch, _ := bus.Subscribe(ctx, Filter{}, 0)

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	_, open := <-ch
	assert.False(t, open)

	err := bus.Publish(ctx, Event{Type: EventRunStarted})
	assert.Error(t, err)
}

func TestFilterMatches(t *testing.T) {
	event := Event{Type: EventToolExecuted, SessionID: "s1"}

	assert.True(t, Filter{}.Matches(event))
	assert.True(t, Filter{Types: []EventType{EventToolExecuted}}.Matches(event))
	assert.True(t, Filter{SessionID: "s1"}.Matches(event))
	assert.False(t, Filter{Types: []EventType{EventRunStarted}}.Matches(event))
	assert.False(t, Filter{SessionID: "s2"}.Matches(event))
	assert.False(t, Filter{Types: []EventType{EventToolExecuted}, SessionID: "s2"}.Matches(event))
}
