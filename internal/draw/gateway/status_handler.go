package gateway

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pasanaku/pasanaku/internal/draw"
)

// handleGetStatus is the pull transport: the latest persisted snapshot for
// the group's most recent session. Polling this endpoint alone is enough to
// reconstruct the final order; the push channel is an optimization.
func (s *Service) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathGroupID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid group id"})
		return
	}

	memberID, err := uuid.Parse(r.URL.Query().Get("member_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "member_id is required"})
		return
	}
	if err := s.app.Authorize(r.Context(), groupID, memberID); err != nil {
		writeError(w, err)
		return
	}

	session, err := s.app.GetStatus(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, draw.NewStatusResponse(session))
}
