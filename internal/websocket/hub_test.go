package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func recvEvent(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestClientSubscriptionFilter(t *testing.T) {
	c := &Client{}
	assert.True(t, c.wants(EventTypeAnalysis), "no subscription means everything")

	c.Subscription = &SubscriptionRequest{Events: []EventType{EventTypeAnalysis}}
	assert.True(t, c.wants(EventTypeAnalysis))
	assert.False(t, c.wants(EventTypeConnection))
	assert.False(t, c.wants(EventTypeSystemStatus))
}

func TestHubBroadcastsConnectionEvents(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	watcher := &Client{ID: "watcher", Send: make(chan Event, 8)}
	hub.register <- watcher

	newcomer := &Client{ID: "newcomer", Send: make(chan Event, 8)}
	hub.register <- newcomer

	ev := recvEvent(t, watcher.Send)
	require.Equal(t, EventTypeConnection, ev.Type)
	data, ok := ev.Data.(ConnectionEvent)
	require.True(t, ok)
	assert.Equal(t, "connected", data.Action)
	assert.Equal(t, "newcomer", data.ClientID)

	// The newcomer must not see its own connect event.
	select {
	case ev := <-newcomer.Send:
		t.Fatalf("newcomer received unexpected event: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}

	hub.unregister <- newcomer

	ev = recvEvent(t, watcher.Send)
	require.Equal(t, EventTypeConnection, ev.Type)
	data = ev.Data.(ConnectionEvent)
	assert.Equal(t, "disconnected", data.Action)
	assert.Equal(t, "newcomer", data.ClientID)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)
}

func TestHubRespectsSubscriptionOnBroadcast(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	analysisOnly := &Client{
		ID:           "analysis-only",
		Send:         make(chan Event, 8),
		Subscription: &SubscriptionRequest{Events: []EventType{EventTypeAnalysis}},
	}
	hub.register <- analysisOnly

	everything := &Client{ID: "everything", Send: make(chan Event, 8)}
	hub.register <- everything

	hub.BroadcastEvent(Event{Type: EventTypeSystemStatus, Timestamp: time.Now()})
	hub.BroadcastEvent(Event{Type: EventTypeAnalysis, Timestamp: time.Now()})

	// The filtered client skips the connection and status events.
	ev := recvEvent(t, analysisOnly.Send)
	assert.Equal(t, EventTypeAnalysis, ev.Type)

	ev = recvEvent(t, everything.Send)
	assert.Equal(t, EventTypeSystemStatus, ev.Type)
	ev = recvEvent(t, everything.Send)
	assert.Equal(t, EventTypeAnalysis, ev.Type)
}
