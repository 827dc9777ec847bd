package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/tightlines/internal/models"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, message, reason string, err error) {
	if err != nil && status >= http.StatusInternalServerError {
		h.logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error(message)
	}

	h.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
		Reason:  reason,
	})
}

// respondServiceError maps domain errors onto HTTP statuses
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	switch {
	case errors.Is(err, models.ErrInvalidID):
		h.respondError(w, r, http.StatusBadRequest, "invalid id", "invalid_id", nil)
	case errors.Is(err, models.ErrNotFound):
		h.respondError(w, r, http.StatusNotFound, "not found", "not_found", nil)
	case errors.Is(err, models.ErrDuplicatePeg), errors.Is(err, models.ErrWeighInsNotOpen):
		errors.As(err, &ve)
		h.respondError(w, r, http.StatusConflict, ve.Message, ve.Code, nil)
	case errors.As(err, &ve):
		h.respondError(w, r, http.StatusBadRequest, ve.Message, ve.Code, nil)
	default:
		h.respondError(w, r, http.StatusInternalServerError, "internal error", "", err)
	}
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, models.ErrInvalidID
	}
	return id, nil
}

func parseIntParam(r *http.Request, name string, defaultValue int) int {
	valueStr := r.URL.Query().Get(name)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil || value < 0 {
		return defaultValue
	}

	return value
}
