package gateway

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pasanaku/pasanaku/internal/draw"
)

// handleStartDraw starts a draw for a group. Who may start a draw is decided
// upstream (the platform's admin API); this endpoint enforces only the
// one-active-session invariant and membership finality.
func (s *Service) handleStartDraw(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathGroupID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid group id"})
		return
	}

	session, err := s.app.StartDraw(r.Context(), groupID)
	if err != nil {
		log.Warn().
			Err(err).
			Str("group_id", groupID.String()).
			Msg("start draw rejected")
		writeError(w, err)
		return
	}

	if s.launcher != nil {
		// The runner outlives this request; it stops via the scheduler's own
		// shutdown, not the request context.
		s.launcher.Launch(r.Context(), session)
	}

	writeJSON(w, http.StatusCreated, draw.NewStatusResponse(session))
}
