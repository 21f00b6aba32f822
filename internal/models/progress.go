package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity kinds (tagged variant: exactly one referenced activity per record,
// the kind says which catalog it lives in).
const (
	KindLesson = "lesson"
	KindGame   = "game"
)

// Completion status values.
const (
	ProgressNotStarted = "not_started"
	ProgressInProgress = "in_progress"
	ProgressCompleted  = "completed"
)

// Grading status values.
const (
	GradingUngraded = "ungraded"
	GradingGraded   = "graded"
)

type Answer struct {
	ItemID    string `json:"item_id"`
	Answer    string `json:"answer"`
	IsCorrect bool   `json:"is_correct"`
}

type ActivityCompletion struct {
	ID               uuid.UUID  `json:"id"`
	LearnerID        uuid.UUID  `json:"learner_id"`
	ActivityID       uuid.UUID  `json:"activity_id"`
	Kind             string     `json:"kind"`
	Status           string     `json:"status"`
	SystemScore      int        `json:"system_score"`
	TeacherScore     *int       `json:"teacher_score"`
	GradingStatus    string     `json:"grading_status"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	AttemptCount     int        `json:"attempt_count"`
	Answers          []Answer   `json:"answers"`
	ResultArtifact   *string    `json:"result_artifact,omitempty"`
	TeacherComment   *string    `json:"teacher_comment,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type RecordCompletionRequest struct {
	LearnerID        uuid.UUID
	ActivityID       uuid.UUID
	Kind             string
	SystemScore      int
	TimeSpentSeconds int
	Answers          []Answer
	ResultArtifact   *string
}

type RecordCompletionResult struct {
	RecordID       uuid.UUID `json:"record_id"`
	Score          int       `json:"score"`
	ResultArtifact *string   `json:"result_artifact,omitempty"`
	Achievements   []string  `json:"achievements"`
}

type LearnerStats struct {
	TotalActivities int `json:"total_activities"`
	CompletedCount  int `json:"completed_count"`
	InProgressCount int `json:"in_progress_count"`
	AverageScore    int `json:"average_score"`
	TotalTimeSpent  int `json:"total_time_spent"`
	CompletionRate  int `json:"completion_rate"`
}

type CategoryStats struct {
	Category     string `json:"category"`
	Total        int    `json:"total"`
	Completed    int    `json:"completed"`
	AverageScore int    `json:"average_score"`
}

type RosterResult struct {
	LearnerID    uuid.UUID `json:"learner_id"`
	LearnerName  string    `json:"learner_name"`
	Submitted    bool      `json:"submitted"`
	Score        int       `json:"score"`
	TeacherScore *int      `json:"teacher_score,omitempty"`
	GradingState string    `json:"grading_status,omitempty"`
	TimeSpent    int       `json:"time_spent"`
	RecordID     uuid.UUID `json:"record_id,omitempty"`
}

type ClassActivityStats struct {
	TotalRoster       int             `json:"total_roster"`
	SubmittedCount    int             `json:"submitted_count"`
	NotSubmittedCount int             `json:"not_submitted_count"`
	AverageScore      int             `json:"average_score"`
	Results           []*RosterResult `json:"results"`
}

type Achievements struct {
	TotalActivities int     `json:"total_activities"`
	AverageScore    int     `json:"average_score"`
	ExcellentCount  int     `json:"excellent_count"`
	GoodCount       int     `json:"good_count"`
	PassCount       int     `json:"pass_count"`
	TotalTimeSpent  int     `json:"total_time_spent"`
	Badges          []Badge `json:"badges"`
}

type Badge struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}
