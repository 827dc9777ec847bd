package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yourusername/tightlines/internal/models"
	"github.com/yourusername/tightlines/internal/schedule"
	"github.com/yourusername/tightlines/internal/tracing"
)

const maxWeighInBodyBytes = 64 << 10

// ListCompetitions lists published competitions
// Query params: status, venue, limit, offset
func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	filter := models.CompetitionFilter{
		Venue:         r.URL.Query().Get("venue"),
		PublishedOnly: true,
		Limit:         parseIntParam(r, "limit", h.opts.MaxPageSize),
		Offset:        parseIntParam(r, "offset", 0),
	}
	if filter.Limit == 0 || filter.Limit > h.opts.MaxPageSize {
		filter.Limit = h.opts.MaxPageSize
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := schedule.ParseStatus(raw)
		if !ok {
			h.respondError(w, r, http.StatusBadRequest, "status must be upcoming, live, completed or unknown", "invalid_status", nil)
			return
		}
		filter.Status = status
	}

	views, err := h.competitions.List(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, models.CompetitionList{
		Competitions: views,
		Count:        len(views),
		Limit:        filter.Limit,
		Offset:       filter.Offset,
		GeneratedAt:  time.Now().UTC(),
	})
}

// GetCompetition returns one published competition with its status
func (h *Handler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	view, ok := h.publishedCompetition(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// GetLeaderboard returns the ranked leaderboard
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	view, ok := h.publishedCompetition(w, r)
	if !ok {
		return
	}

	board, err := h.leaderboards.Rank(r.Context(), view.ID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, board)
}

// GetTeams returns team standings
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	view, ok := h.publishedCompetition(w, r)
	if !ok {
		return
	}

	teams, err := h.leaderboards.TeamTotals(r.Context(), view.ID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, models.TeamList{CompetitionID: view.ID, Teams: teams})
}

// RecordWeighIn stores a weigh-in and returns the updated leaderboard
func (h *Handler) RecordWeighIn(w http.ResponseWriter, r *http.Request) {
	view, ok := h.publishedCompetition(w, r)
	if !ok {
		return
	}

	var req models.WeighInRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWeighInBodyBytes)).Decode(&req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "request body must be a JSON weigh-in", "invalid_body", nil)
		return
	}

	board, err := h.leaderboards.RecordWeighIn(r.Context(), req.Entry(view.ID))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, board)
}

// publishedCompetition loads the {id} competition, answering 404 for drafts
func (h *Handler) publishedCompetition(w http.ResponseWriter, r *http.Request) (*models.CompetitionView, bool) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return nil, false
	}
	tracing.AddAnnotation(r.Context(), "competition_id", id.String())

	view, err := h.competitions.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return nil, false
	}
	if !view.Published {
		h.respondServiceError(w, r, models.ErrNotFound)
		return nil, false
	}
	return view, true
}
