package api

import (
	"net/http"

	"github.com/yourusername/tightlines/internal/models"
	"github.com/yourusername/tightlines/internal/weight"
)

// FormatWeight shows a raw weight value in display and metric form
func (h *Handler) FormatWeight(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	if value == "" {
		h.respondError(w, r, http.StatusBadRequest, "value is required", "missing_value", nil)
		return
	}

	total, err := weight.Parse(value)
	h.respondJSON(w, http.StatusOK, models.WeightConversion{
		Value:       value,
		Valid:       err == nil,
		TotalOunces: total,
		Display:     weight.FormatValue(value),
		Metric:      weight.FormatMetric(total),
	})
}
