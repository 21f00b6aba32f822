package models

import (
	"time"

	"github.com/google/uuid"
)

// Session status values. A learner has at most one active session at a time;
// the store enforces this with a partial unique index.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

type AppSession struct {
	ID              uuid.UUID  `json:"id"`
	LearnerID       uuid.UUID  `json:"learner_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

type SessionPage struct {
	Sessions []*AppSession `json:"sessions"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
	Pages    int           `json:"pages"`
}

type UsageTotals struct {
	TotalSeconds int `json:"total_seconds"`
	SessionCount int `json:"session_count"`
	TotalMinutes int `json:"total_minutes"`
	TotalHours   int `json:"total_hours"`
}

// LastActivity describes the most recent usage of the app by a learner,
// active-session first, with a human-readable recency bucket.
type LastActivity struct {
	LastActivityAt *time.Time `json:"last_activity_at"`
	TimeAgo        string     `json:"time_ago"`
	DurationSecs   int        `json:"duration_seconds"`
	IsActive       bool       `json:"is_active"`
	StatusText     string     `json:"status_text"`
}
