package api

import (
	"net/http"
	"strings"

	"github.com/yourusername/tightlines/internal/models"
)

// ListAnglers lists or searches the angler directory
// Query params: q, limit, offset
func (h *Handler) ListAnglers(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", h.opts.MaxPageSize)
	if limit == 0 || limit > h.opts.MaxPageSize {
		limit = h.opts.MaxPageSize
	}

	var (
		anglers []*models.Angler
		err     error
	)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		anglers, err = h.anglers.Search(r.Context(), q, limit)
	} else {
		anglers, err = h.anglers.List(r.Context(), limit, parseIntParam(r, "offset", 0))
	}
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	if anglers == nil {
		anglers = []*models.Angler{}
	}
	h.respondJSON(w, http.StatusOK, models.AnglerList{Anglers: anglers, Count: len(anglers)})
}

// GetAngler returns one angler profile
func (h *Handler) GetAngler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	angler, err := h.anglers.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, angler)
}
