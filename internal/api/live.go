package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/tightlines/internal/live"
)

// StreamLeaderboard upgrades to a websocket that starts with the current
// leaderboard and then receives every update for the competition.
func (h *Handler) StreamLeaderboard(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		h.respondError(w, r, http.StatusServiceUnavailable, "live updates are disabled", "live_disabled", nil)
		return
	}

	view, ok := h.publishedCompetition(w, r)
	if !ok {
		return
	}

	board, err := h.leaderboards.Rank(r.Context(), view.ID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	initial := &live.Message{
		Type:          live.MessageTypeLeaderboardUpdate,
		CompetitionID: view.ID,
		Payload:       board,
		Timestamp:     time.Now().UTC(),
	}
	if err := h.hub.ServeWS(h.streamCtx, w, r, view.ID, initial); err != nil {
		// The upgrader has already written the HTTP error
		h.logger.WithError(err).Debug("Websocket upgrade failed")
	}
}

// StreamStatusChanges upgrades to a websocket receiving status changes for every competition
func (h *Handler) StreamStatusChanges(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		h.respondError(w, r, http.StatusServiceUnavailable, "live updates are disabled", "live_disabled", nil)
		return
	}

	if err := h.hub.ServeWS(h.streamCtx, w, r, uuid.Nil, nil); err != nil {
		h.logger.WithError(err).Debug("Websocket upgrade failed")
	}
}
