package handlers

import (
	"net/http"
	"strconv"

	"littlesteps-backend/internal/models"
	"littlesteps-backend/internal/services"
)

type PresenceHandler struct {
	presence *services.PresenceService
}

func NewPresenceHandler(presence *services.PresenceService) *PresenceHandler {
	return &PresenceHandler{presence: presence}
}

func (h *PresenceHandler) RecentlyActive(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	learners, err := h.presence.RecentlyActive(r.Context(), limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if learners == nil {
		learners = []*models.ActiveLearner{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"learners": learners})
}
