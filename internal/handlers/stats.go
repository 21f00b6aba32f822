package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"littlesteps-backend/internal/middleware"
	"littlesteps-backend/internal/services"
)

type StatsHandler struct {
	stats *services.StatsService
}

func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) LearnerStats(w http.ResponseWriter, r *http.Request) {
	learnerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid learner ID", r))
		return
	}

	overall, categories, err := h.stats.LearnerStats(r.Context(), middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()), learnerID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"overall":     overall,
		"by_category": categories,
	})
}

func (h *StatsHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	learnerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid learner ID", r))
		return
	}

	achievements, err := h.stats.Achievements(r.Context(), middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()), learnerID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, achievements)
}

func (h *StatsHandler) ActivityResults(w http.ResponseWriter, r *http.Request) {
	activityID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid activity ID", r))
		return
	}

	result, err := h.stats.ClassActivityStats(r.Context(), activityID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
