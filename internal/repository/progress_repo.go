package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"littlesteps-backend/internal/models"
)

type ProgressRepo struct {
	pool *pgxpool.Pool
}

func NewProgressRepo(pool *pgxpool.Pool) *ProgressRepo {
	return &ProgressRepo{pool: pool}
}

const completionColumns = `id, learner_id, activity_id, kind, status, system_score,
	teacher_score, grading_status, time_spent_seconds, completed_at, attempt_count,
	answers_json, result_artifact, teacher_comment, created_at, updated_at`

func scanCompletion(row interface{ Scan(...any) error }) (*models.ActivityCompletion, error) {
	c := &models.ActivityCompletion{}
	var answers []byte
	err := row.Scan(
		&c.ID, &c.LearnerID, &c.ActivityID, &c.Kind, &c.Status, &c.SystemScore,
		&c.TeacherScore, &c.GradingStatus, &c.TimeSpentSeconds, &c.CompletedAt,
		&c.AttemptCount, &answers, &c.ResultArtifact, &c.TeacherComment,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &c.Answers); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordCompletion writes the completion record in one conditional upsert.
// A fresh pair inserts; an in-progress shell is promoted to completed with
// its attempt count bumped; an already-completed pair matches no row and the
// caller sees pgx.ErrNoRows. Under two concurrent submissions the unique
// (learner_id, activity_id) constraint guarantees exactly one winner.
func (r *ProgressRepo) RecordCompletion(ctx context.Context, req models.RecordCompletionRequest) (*models.ActivityCompletion, error) {
	answers, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, err
	}
	if req.Answers == nil {
		answers = []byte("[]")
	}

	query := `
		INSERT INTO activity_completions
			(learner_id, activity_id, kind, status, system_score, time_spent_seconds,
			 completed_at, attempt_count, answers_json, result_artifact)
		VALUES ($1, $2, $3, 'completed', $4, $5, NOW(), 1, $6, $7)
		ON CONFLICT (learner_id, activity_id) DO UPDATE SET
			status = 'completed',
			system_score = EXCLUDED.system_score,
			time_spent_seconds = EXCLUDED.time_spent_seconds,
			completed_at = NOW(),
			attempt_count = activity_completions.attempt_count + 1,
			answers_json = EXCLUDED.answers_json,
			result_artifact = EXCLUDED.result_artifact,
			updated_at = NOW()
		WHERE activity_completions.status <> 'completed'
		RETURNING ` + completionColumns

	return scanCompletion(r.pool.QueryRow(ctx, query,
		req.LearnerID, req.ActivityID, req.Kind, req.SystemScore,
		req.TimeSpentSeconds, answers, req.ResultArtifact,
	))
}

// UpsertShell creates or refreshes a not-yet-completed record (a guardian or
// teacher marking a lesson in progress). Completed records match no row, so
// the single-attempt rule cannot be bypassed through this path.
func (r *ProgressRepo) UpsertShell(ctx context.Context, learnerID, activityID uuid.UUID, kind, status string, systemScore, timeSpent int) (*models.ActivityCompletion, error) {
	query := `
		INSERT INTO activity_completions
			(learner_id, activity_id, kind, status, system_score, time_spent_seconds, attempt_count)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
		ON CONFLICT (learner_id, activity_id) DO UPDATE SET
			status = EXCLUDED.status,
			system_score = EXCLUDED.system_score,
			time_spent_seconds = EXCLUDED.time_spent_seconds,
			updated_at = NOW()
		WHERE activity_completions.status <> 'completed'
		RETURNING ` + completionColumns

	return scanCompletion(r.pool.QueryRow(ctx, query,
		learnerID, activityID, kind, status, systemScore, timeSpent,
	))
}

func (r *ProgressRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ActivityCompletion, error) {
	query := `SELECT ` + completionColumns + ` FROM activity_completions WHERE id = $1`
	return scanCompletion(r.pool.QueryRow(ctx, query, id))
}

// Grade sets the teacher override on an existing record. Re-grading simply
// overwrites. System score, answers and time spent are never touched here.
func (r *ProgressRepo) Grade(ctx context.Context, recordID uuid.UUID, teacherScore int, comment *string) (*models.ActivityCompletion, error) {
	query := `
		UPDATE activity_completions
		SET teacher_score = $2,
			grading_status = 'graded',
			teacher_comment = COALESCE($3, teacher_comment),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + completionColumns

	return scanCompletion(r.pool.QueryRow(ctx, query, recordID, teacherScore, comment))
}

func (r *ProgressRepo) ListByLearner(ctx context.Context, learnerID uuid.UUID, limit int) ([]*models.ActivityCompletion, error) {
	query := `
		SELECT ` + completionColumns + `
		FROM activity_completions
		WHERE learner_id = $1
		ORDER BY updated_at DESC`
	args := []any{learnerID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.ActivityCompletion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, c)
	}
	return records, nil
}

// ListCompletedByActivity returns the completed submissions for one activity,
// restricted to the given roster.
func (r *ProgressRepo) ListCompletedByActivity(ctx context.Context, activityID uuid.UUID, learnerIDs []uuid.UUID) ([]*models.ActivityCompletion, error) {
	query := `
		SELECT ` + completionColumns + `
		FROM activity_completions
		WHERE activity_id = $1
		  AND status = 'completed'
		  AND learner_id = ANY($2)`

	rows, err := r.pool.Query(ctx, query, activityID, learnerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.ActivityCompletion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, c)
	}
	return records, nil
}
