package models

import (
	"time"

	"github.com/google/uuid"
)

// Learner is the child profile whose activity is tracked. For student
// accounts the learner id equals the account id, so a student caller always
// resolves to their own row.
type Learner struct {
	ID         uuid.UUID  `json:"id"`
	FullName   string     `json:"full_name"`
	AvatarURL  *string    `json:"avatar_url,omitempty"`
	GuardianID *uuid.UUID `json:"guardian_id,omitempty"`
	ClassID    *uuid.UUID `json:"class_id,omitempty"`
	Level      string     `json:"level"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ActiveLearner is one row of the recently-active dashboard.
type ActiveLearner struct {
	LearnerID        uuid.UUID `json:"learner_id"`
	FullName         string    `json:"full_name"`
	AvatarURL        *string   `json:"avatar_url,omitempty"`
	IsActive         bool      `json:"is_active"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	ElapsedSeconds   int       `json:"elapsed_seconds"`
	ElapsedMinutes   int       `json:"elapsed_minutes"`
	ElapsedHours     int       `json:"elapsed_hours"`
	RemainderMinutes int       `json:"remainder_minutes"`
}
