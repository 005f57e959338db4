package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pasanaku/pasanaku/internal/draw"
	"github.com/pasanaku/pasanaku/internal/models"
)

// DrawService defines what the gateway needs from the draw app.
type DrawService interface {
	StartDraw(ctx context.Context, groupID uuid.UUID) (*models.DrawSession, error)
	GetStatus(ctx context.Context, groupID uuid.UUID) (*models.DrawSession, error)
	Authorize(ctx context.Context, groupID, memberID uuid.UUID) error
}

// SessionLauncher starts the reveal runner for a freshly created session.
// Nil on gateway-only instances, where a scheduler elsewhere owns the reveal.
type SessionLauncher interface {
	Launch(ctx context.Context, session *models.DrawSession)
}

// Service wires the HTTP surface: draw start, status polling, and websocket
// subscriptions.
type Service struct {
	app      DrawService
	launcher SessionLauncher
	hub      *Hub
}

func NewService(app DrawService, launcher SessionLauncher, hub *Hub) *Service {
	return &Service{
		app:      app,
		launcher: launcher,
		hub:      hub,
	}
}

// RegisterRoutes attaches all gateway routes to the mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/groups/{group_id}/draw", s.handleStartDraw)
	mux.HandleFunc("GET /api/groups/{group_id}/draw", s.handleGetStatus)
	mux.HandleFunc("GET /ws/draw", s.handleSubscribe)
	mux.HandleFunc("GET /ws/stats", s.handleStats)
}

func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	total, groups := s.hub.Stats()
	writeJSON(w, http.StatusOK, map[string]int{
		"total_connections": total,
		"active_groups":     groups,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps the draw error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, draw.ErrSessionAlreadyActive):
		status = http.StatusConflict
	case errors.Is(err, draw.ErrGroupNotEligible), errors.Is(err, draw.ErrInvalidInput):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, draw.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, draw.ErrNoSession):
		status = http.StatusNotFound
	case errors.Is(err, draw.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func pathGroupID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("group_id"))
	return id, err == nil
}
