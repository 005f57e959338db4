package gateway

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasanaku/pasanaku/internal/draw/events"
)

func testHub(t *testing.T, config ConnectionConfig) *Hub {
	t.Helper()
	hub := NewHub(config)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func readEvent(t *testing.T, conn *Connection) events.Event {
	t.Helper()
	select {
	case data := <-conn.Send:
		var e events.Event
		require.NoError(t, json.Unmarshal(data, &e))
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
		return events.Event{}
	}
}

func progressEvent(groupID uuid.UUID, step int) events.Event {
	return events.Event{
		ID:          uuid.New().String(),
		Type:        events.TypeDrawProgress,
		SessionID:   uuid.New().String(),
		GroupID:     groupID.String(),
		CurrentStep: step,
		Timestamp:   time.Now(),
	}
}

func TestHubBroadcastReachesGroupSubscribersOnly(t *testing.T) {
	hub := testHub(t, DefaultConnectionConfig())

	groupA := uuid.New()
	groupB := uuid.New()
	connA := newConnection(hub, nil, groupA, uuid.New())
	connB := newConnection(hub, nil, groupB, uuid.New())
	hub.Register(connA, nil)
	hub.Register(connB, nil)

	hub.Broadcast(groupA, progressEvent(groupA, 1))

	e := readEvent(t, connA)
	assert.Equal(t, events.TypeDrawProgress, e.Type)
	assert.Equal(t, groupA.String(), e.GroupID)

	select {
	case <-connB.Send:
		t.Fatal("event leaked to another group")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubCatchUpArrivesBeforeLiveEvents(t *testing.T) {
	hub := testHub(t, DefaultConnectionConfig())
	groupID := uuid.New()

	catchUp := events.Event{
		ID:        uuid.New().String(),
		Type:      events.TypeDrawStarted,
		GroupID:   groupID.String(),
		Timestamp: time.Now(),
	}

	conn := newConnection(hub, nil, groupID, uuid.New())
	hub.Register(conn, &catchUp)
	hub.Broadcast(groupID, progressEvent(groupID, 1))

	first := readEvent(t, conn)
	assert.Equal(t, events.TypeDrawStarted, first.Type)

	second := readEvent(t, conn)
	assert.Equal(t, events.TypeDrawProgress, second.Type)
}

func TestHubDropsSlowConnection(t *testing.T) {
	config := DefaultConnectionConfig()
	config.SendBufferSize = 1
	hub := testHub(t, config)
	groupID := uuid.New()

	slow := newConnection(hub, nil, groupID, uuid.New())
	healthy := newConnection(hub, nil, groupID, uuid.New())
	hub.Register(slow, nil)
	hub.Register(healthy, nil)

	// Nobody drains slow.Send; the second broadcast overflows its buffer.
	hub.Broadcast(groupID, progressEvent(groupID, 1))
	assert.Equal(t, 1, readEvent(t, healthy).CurrentStep)

	hub.Broadcast(groupID, progressEvent(groupID, 2))
	assert.Equal(t, 2, readEvent(t, healthy).CurrentStep)

	require.Eventually(t, func() bool {
		return hub.SubscriberCount(groupID) == 1
	}, 5*time.Second, 10*time.Millisecond)

	select {
	case <-slow.done:
	case <-time.After(time.Second):
		t.Fatal("slow connection was not closed")
	}
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	hub := testHub(t, DefaultConnectionConfig())
	groupID := uuid.New()

	conn := newConnection(hub, nil, groupID, uuid.New())
	hub.Register(conn, nil)
	assert.Equal(t, 1, hub.SubscriberCount(groupID))

	hub.Unregister(conn)
	hub.Unregister(conn)
	assert.Equal(t, 0, hub.SubscriberCount(groupID))
}

func TestHubStats(t *testing.T) {
	hub := testHub(t, DefaultConnectionConfig())
	groupA := uuid.New()
	groupB := uuid.New()

	hub.Register(newConnection(hub, nil, groupA, uuid.New()), nil)
	hub.Register(newConnection(hub, nil, groupA, uuid.New()), nil)
	hub.Register(newConnection(hub, nil, groupB, uuid.New()), nil)

	total, groups := hub.Stats()
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, groups)
}
