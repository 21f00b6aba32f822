package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"littlesteps-backend/internal/middleware"
	"littlesteps-backend/internal/models"
	"littlesteps-backend/internal/services"
)

type ProgressHandler struct {
	progress *services.ProgressService
}

func NewProgressHandler(progress *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

func (h *ProgressHandler) RecordCompletion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LearnerID        string          `json:"learner_id"`
		ActivityID       string          `json:"activity_id"`
		Kind             string          `json:"kind"`
		SystemScore      int             `json:"system_score"`
		TimeSpentSeconds int             `json:"time_spent_seconds"`
		Answers          []models.Answer `json:"answers"`
		ResultArtifact   *string         `json:"result_artifact"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	activityID, err := uuid.Parse(req.ActivityID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid activity_id", r))
		return
	}

	// learner_id is optional for student callers
	var learnerID uuid.UUID
	if req.LearnerID != "" {
		learnerID, err = uuid.Parse(req.LearnerID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid learner_id", r))
			return
		}
	}

	result, err := h.progress.RecordCompletion(r.Context(), middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()), services.RecordCompletionInput{
		LearnerID:        learnerID,
		ActivityID:       activityID,
		Kind:             req.Kind,
		SystemScore:      req.SystemScore,
		TimeSpentSeconds: req.TimeSpentSeconds,
		Answers:          req.Answers,
		ResultArtifact:   req.ResultArtifact,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *ProgressHandler) UpsertProgress(w http.ResponseWriter, r *http.Request) {
	learnerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid learner ID", r))
		return
	}

	var req struct {
		ActivityID       string `json:"activity_id"`
		Status           string `json:"status"`
		Score            int    `json:"score"`
		TimeSpentSeconds int    `json:"time_spent_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	activityID, err := uuid.Parse(req.ActivityID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid activity_id", r))
		return
	}

	if req.Status == "" {
		req.Status = models.ProgressInProgress
	}

	record, err := h.progress.UpsertProgress(r.Context(), middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()), learnerID, activityID, req.Status, req.Score, req.TimeSpentSeconds)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"progress": record})
}

func (h *ProgressHandler) Grade(w http.ResponseWriter, r *http.Request) {
	recordID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid record ID", r))
		return
	}

	var req struct {
		TeacherScore int     `json:"teacher_score"`
		Comment      *string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	record, err := h.progress.Grade(r.Context(), middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()), recordID, req.TeacherScore, req.Comment)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"record_id":      record.ID,
		"teacher_score":  record.TeacherScore,
		"grading_status": record.GradingStatus,
	})
}

func (h *ProgressHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	recordID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid record ID", r))
		return
	}

	record, err := h.progress.GetByID(r.Context(), recordID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"progress": record})
}

func (h *ProgressHandler) ListByLearner(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, 0)
}

func (h *ProgressHandler) Recent(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, 10)
}

func (h *ProgressHandler) list(w http.ResponseWriter, r *http.Request, limit int) {
	learnerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid learner ID", r))
		return
	}

	records, err := h.progress.ListByLearner(r.Context(), middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()), learnerID, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if records == nil {
		records = []*models.ActivityCompletion{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"progress": records})
}
