package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"littlesteps-backend/internal/models"
	"littlesteps-backend/internal/repository"
)

type ProgressService struct {
	progress   *repository.ProgressRepo
	activities *repository.ActivityRepo
	learners   *repository.LearnerRepo
	classes    *repository.ClassRepo
	roster     *SessionService
}

func NewProgressService(
	progress *repository.ProgressRepo,
	activities *repository.ActivityRepo,
	learners *repository.LearnerRepo,
	classes *repository.ClassRepo,
	roster *SessionService,
) *ProgressService {
	return &ProgressService{
		progress:   progress,
		activities: activities,
		learners:   learners,
		classes:    classes,
		roster:     roster,
	}
}

type RecordCompletionInput struct {
	LearnerID        uuid.UUID
	ActivityID       uuid.UUID
	Kind             string
	SystemScore      int
	TimeSpentSeconds int
	Answers          []models.Answer
	ResultArtifact   *string
}

// RecordCompletion writes the at-most-one submission for a (learner,
// activity) pair. A second submission for an already-completed pair is a
// Conflict and leaves the existing record untouched.
func (s *ProgressService) RecordCompletion(ctx context.Context, callerID uuid.UUID, role string, in RecordCompletionInput) (*models.RecordCompletionResult, error) {
	if fields := validateSubmission(in.Kind, in.SystemScore, in.TimeSpentSeconds); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	learner, err := s.roster.ResolveLearner(ctx, callerID, role, in.LearnerID)
	if err != nil {
		return nil, err
	}

	activity, err := s.activities.GetByID(ctx, in.ActivityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Activity not found"}
		}
		return nil, &DependencyError{Message: "Catalog lookup failed"}
	}
	if activity.Kind != in.Kind {
		return nil, &ValidationError{Fields: map[string]string{"kind": "Kind does not match the referenced activity"}}
	}

	record, err := s.progress.RecordCompletion(ctx, models.RecordCompletionRequest{
		LearnerID:        learner.ID,
		ActivityID:       activity.ID,
		Kind:             activity.Kind,
		SystemScore:      in.SystemScore,
		TimeSpentSeconds: in.TimeSpentSeconds,
		Answers:          NormalizeAnswers(in.Answers),
		ResultArtifact:   in.ResultArtifact,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ConflictError{Message: "Result already submitted, a single attempt is allowed"}
		}
		return nil, err
	}

	return &models.RecordCompletionResult{
		RecordID:       record.ID,
		Score:          record.SystemScore,
		ResultArtifact: record.ResultArtifact,
		Achievements:   scoreAchievements(record.SystemScore, record.TimeSpentSeconds),
	}, nil
}

// UpsertProgress creates or refreshes an in-progress shell, e.g. a guardian
// marking a lesson as started. It can never overwrite a completed record.
func (s *ProgressService) UpsertProgress(ctx context.Context, callerID uuid.UUID, role string, learnerID, activityID uuid.UUID, status string, score, timeSpent int) (*models.ActivityCompletion, error) {
	fields := map[string]string{}
	if status != models.ProgressNotStarted && status != models.ProgressInProgress {
		fields["status"] = "Status must be not_started or in_progress"
	}
	if score < 0 || score > 100 {
		fields["score"] = "Score must be between 0 and 100"
	}
	if timeSpent < 0 {
		fields["time_spent"] = "Time spent must not be negative"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	learner, err := s.roster.ResolveLearner(ctx, callerID, role, learnerID)
	if err != nil {
		return nil, err
	}

	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Activity not found"}
		}
		return nil, &DependencyError{Message: "Catalog lookup failed"}
	}

	record, err := s.progress.UpsertShell(ctx, learner.ID, activity.ID, activity.Kind, status, score, timeSpent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ConflictError{Message: "Result already submitted, a single attempt is allowed"}
		}
		return nil, err
	}
	return record, nil
}

// Grade attaches or overwrites the teacher score on an existing completion
// record. Only the grading fields change.
func (s *ProgressService) Grade(ctx context.Context, graderID uuid.UUID, role string, recordID uuid.UUID, teacherScore int, comment *string) (*models.ActivityCompletion, error) {
	if role != RoleTeacher && role != RoleAdmin {
		return nil, &ForbiddenError{Message: "Only teachers may grade submissions"}
	}
	if teacherScore < 0 || teacherScore > 100 {
		return nil, &ValidationError{Fields: map[string]string{"teacher_score": "Teacher score must be between 0 and 100"}}
	}

	record, err := s.progress.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Completion record not found"}
		}
		return nil, err
	}

	if role == RoleTeacher {
		ok, err := s.classes.TeacherHasActivityAccess(ctx, graderID, record.ActivityID)
		if err != nil {
			return nil, &DependencyError{Message: "Authorization check failed"}
		}
		if !ok {
			return nil, &ForbiddenError{Message: "You may not grade this submission"}
		}
	}

	return s.progress.Grade(ctx, recordID, teacherScore, comment)
}

func (s *ProgressService) GetByID(ctx context.Context, id uuid.UUID) (*models.ActivityCompletion, error) {
	record, err := s.progress.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Completion record not found"}
		}
		return nil, err
	}
	return record, nil
}

func (s *ProgressService) ListByLearner(ctx context.Context, callerID uuid.UUID, role string, learnerID uuid.UUID, limit int) ([]*models.ActivityCompletion, error) {
	learner, err := s.roster.ResolveLearner(ctx, callerID, role, learnerID)
	if err != nil {
		return nil, err
	}
	return s.progress.ListByLearner(ctx, learner.ID, limit)
}

// NormalizeAnswers trims each answer and synthesizes a positional item id
// (question_{index}) when one is missing, so malformed payloads cannot
// corrupt per-item analytics.
func NormalizeAnswers(answers []models.Answer) []models.Answer {
	normalized := make([]models.Answer, len(answers))
	for i, a := range answers {
		itemID := strings.TrimSpace(a.ItemID)
		if itemID == "" {
			itemID = fmt.Sprintf("question_%d", i)
		}
		normalized[i] = models.Answer{
			ItemID:    itemID,
			Answer:    strings.TrimSpace(a.Answer),
			IsCorrect: a.IsCorrect,
		}
	}
	return normalized
}

func validateSubmission(kind string, score, timeSpent int) map[string]string {
	fields := map[string]string{}
	if kind != models.KindLesson && kind != models.KindGame {
		fields["kind"] = "Kind must be lesson or game"
	}
	if score < 0 || score > 100 {
		fields["system_score"] = "Score must be between 0 and 100"
	}
	if timeSpent < 0 {
		fields["time_spent_seconds"] = "Time spent must not be negative"
	}
	return fields
}

// scoreAchievements mirrors the thresholds shown to children right after a
// submission.
func scoreAchievements(score, timeSpent int) []string {
	achievements := []string{}
	if score >= 90 {
		achievements = append(achievements, "excellent")
	}
	if score >= 80 {
		achievements = append(achievements, "good")
	}
	if score >= 70 {
		achievements = append(achievements, "pass")
	}
	if timeSpent > 0 && timeSpent < 60 {
		achievements = append(achievements, "fast")
	}
	return achievements
}
