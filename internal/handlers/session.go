package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"littlesteps-backend/internal/middleware"
	"littlesteps-backend/internal/services"
)

type SessionHandler struct {
	sessions *services.SessionService
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// learnerFromBody reads the optional learner_id field. Student callers act
// on themselves; guardians must name the child.
func learnerFromBody(r *http.Request) (uuid.UUID, bool) {
	var req struct {
		LearnerID string `json:"learner_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return uuid.Nil, r.ContentLength == 0
	}
	if req.LearnerID == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(req.LearnerID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := learnerFromBody(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid learner_id", r))
		return
	}

	session, err := h.sessions.Start(r.Context(), middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()), learnerID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
		"message": "Session started",
	})
}

func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := learnerFromBody(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid learner_id", r))
		return
	}

	session, err := h.sessions.End(r.Context(), middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()), learnerID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
		"message": "Session ended",
	})
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	learnerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid learner ID", r))
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.sessions.List(r.Context(), middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()), learnerID, page, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *SessionHandler) TotalUsage(w http.ResponseWriter, r *http.Request) {
	learnerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid learner ID", r))
		return
	}

	var from, to *time.Time
	if v := r.URL.Query().Get("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "start_date must be RFC3339", r))
			return
		}
		from = &t
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "end_date must be RFC3339", r))
			return
		}
		to = &t
	}

	totals, err := h.sessions.TotalUsage(r.Context(), middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()), learnerID, from, to)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, totals)
}

func (h *SessionHandler) LastActivity(w http.ResponseWriter, r *http.Request) {
	learnerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid learner ID", r))
		return
	}

	activity, err := h.sessions.LastActivity(r.Context(), middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()), learnerID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, activity)
}
