// Package gateway is the boundary the rest of the platform talks to: the
// push transport (websocket), the pull transport (status polling), and the
// draw start endpoint. Both transports observe the same persisted session
// state, so a pull-only client can always reconstruct the final order.
package gateway

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pasanaku/pasanaku/internal/draw/events"
)

// Hub fans reveal events out to subscribed connections, keyed by group. It is
// an explicit registry created at service start and injected wherever events
// originate; there is no package-level connection table.
type Hub struct {
	groupConnections map[uuid.UUID]map[*Connection]bool
	mu               sync.RWMutex

	broadcastCh chan broadcastMessage
	config      ConnectionConfig
}

type broadcastMessage struct {
	GroupID uuid.UUID
	Event   events.Event
}

func NewHub(config ConnectionConfig) *Hub {
	return &Hub{
		groupConnections: make(map[uuid.UUID]map[*Connection]bool),
		broadcastCh:      make(chan broadcastMessage, 1000),
		config:           config,
	}
}

// Run processes broadcast messages until the context is canceled. Publishers
// never block on subscriber I/O; everything funnels through broadcastCh and
// per-connection send buffers.
func (h *Hub) Run(ctx context.Context) {
	log.Info().Msg("broadcast hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("broadcast hub shutting down")
			h.closeAll()
			return
		case msg := <-h.broadcastCh:
			h.handleBroadcast(msg)
		}
	}
}

// Broadcast queues an event for fan-out to every connection subscribed to
// the group. Fire-and-forget: if the hub's queue is full the event is
// dropped, and subscribers recover via the pull transport.
func (h *Hub) Broadcast(groupID uuid.UUID, event events.Event) {
	select {
	case h.broadcastCh <- broadcastMessage{GroupID: groupID, Event: event}:
	default:
		log.Warn().
			Str("group_id", groupID.String()).
			Str("event_type", string(event.Type)).
			Msg("broadcast queue full, dropping event")
	}
}

// Register subscribes a connection to its group. The catch-up event, when
// present, is placed at the head of the connection's send buffer under the
// registry lock, so no live event can reach this connection first.
func (h *Hub) Register(conn *Connection, catchUp *events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if catchUp != nil {
		data, err := json.Marshal(catchUp)
		if err != nil {
			log.Error().Err(err).Msg("failed to marshal catch-up event")
		} else {
			conn.Send <- data
		}
	}

	if h.groupConnections[conn.GroupID] == nil {
		h.groupConnections[conn.GroupID] = make(map[*Connection]bool)
	}
	h.groupConnections[conn.GroupID][conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Str("group_id", conn.GroupID.String()).
		Int("subscribers", len(h.groupConnections[conn.GroupID])).
		Msg("connection registered")
}

// Unregister removes a connection and closes its send buffer. Safe to call
// more than once per connection.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unregisterLocked(conn)
}

func (h *Hub) unregisterLocked(conn *Connection) {
	connections, exists := h.groupConnections[conn.GroupID]
	if !exists {
		return
	}
	if _, exists := connections[conn]; !exists {
		return
	}
	delete(connections, conn)
	if len(connections) == 0 {
		delete(h.groupConnections, conn.GroupID)
	}

	log.Info().
		Str("connection_id", conn.ID).
		Str("group_id", conn.GroupID.String()).
		Msg("connection unregistered")
}

func (h *Hub) handleBroadcast(msg broadcastMessage) {
	h.mu.RLock()
	connections, exists := h.groupConnections[msg.GroupID]
	if !exists {
		h.mu.RUnlock()
		return
	}
	targets := make([]*Connection, 0, len(connections))
	for conn := range connections {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(msg.Event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	var dead []*Connection
	for _, conn := range targets {
		select {
		case conn.Send <- data:
		case <-conn.done:
			dead = append(dead, conn)
		default:
			// Slow or dead consumer. Dropping the connection keeps delivery
			// to everyone else (and the scheduler) unblocked.
			log.Warn().
				Str("connection_id", conn.ID).
				Str("group_id", conn.GroupID.String()).
				Msg("send buffer full, closing connection")
			dead = append(dead, conn)
		}
	}

	for _, conn := range dead {
		h.Unregister(conn)
		conn.close()
	}

	log.Debug().
		Str("event_type", string(msg.Event.Type)).
		Str("group_id", msg.GroupID.String()).
		Int("subscribers", len(targets)).
		Msg("event broadcast")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, connections := range h.groupConnections {
		for conn := range connections {
			conn.close()
		}
	}
	h.groupConnections = make(map[uuid.UUID]map[*Connection]bool)
}

// SubscriberCount reports the live subscriber count for a group.
func (h *Hub) SubscriberCount(groupID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groupConnections[groupID])
}

// Stats summarizes active subscriptions for the stats endpoint.
func (h *Hub) Stats() (totalConnections int, activeGroups int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, connections := range h.groupConnections {
		totalConnections += len(connections)
	}
	return totalConnections, len(h.groupConnections)
}
