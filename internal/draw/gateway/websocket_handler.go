package gateway

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/pasanaku/pasanaku/internal/draw"
	"github.com/pasanaku/pasanaku/internal/draw/events"
)

// handleSubscribe upgrades a member's connection and subscribes it to its
// group's reveal stream. A late subscriber always receives a catch-up event
// reflecting the latest persisted state before any live event.
func (s *Service) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(r.URL.Query().Get("group_id"))
	if err != nil {
		http.Error(w, "group_id is required", http.StatusBadRequest)
		return
	}
	memberID, err := uuid.Parse(r.URL.Query().Get("member_id"))
	if err != nil {
		http.Error(w, "member_id is required", http.StatusBadRequest)
		return
	}

	if err := s.app.Authorize(r.Context(), groupID, memberID); err != nil {
		log.Warn().
			Err(err).
			Str("group_id", groupID.String()).
			Str("member_id", memberID.String()).
			Msg("subscribe rejected")
		if errors.Is(err, draw.ErrUnauthorized) {
			http.Error(w, "not a group member", http.StatusForbidden)
		} else {
			http.Error(w, "authorization check failed", http.StatusInternalServerError)
		}
		return
	}

	// Snapshot before registering: every event broadcast after registration
	// postdates this state, so the client sees the catch-up first and steps
	// only move forward from it.
	var catchUp *events.Event
	session, err := s.app.GetStatus(r.Context(), groupID)
	switch {
	case err == nil:
		e := events.CatchUp(session, time.Now())
		catchUp = &e
	case errors.Is(err, draw.ErrNoSession):
		// First draw for the group has not started. Nothing to replay.
	default:
		writeError(w, err)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  s.hub.config.ReadBufferSize,
		WriteBufferSize: s.hub.config.WriteBufferSize,
		CheckOrigin:     s.hub.config.CheckOrigin,
	}
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := newConnection(s.hub, wsConn, groupID, memberID)
	s.hub.Register(conn, catchUp)

	go conn.writePump()
	go conn.readPump()

	log.Info().
		Str("connection_id", conn.ID).
		Str("group_id", groupID.String()).
		Str("member_id", memberID.String()).
		Msg("subscriber connected")
}
