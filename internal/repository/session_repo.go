package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"littlesteps-backend/internal/models"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

const sessionColumns = "id, learner_id, started_at, ended_at, duration_seconds, status, created_at"

func scanSession(row interface{ Scan(...any) error }) (*models.AppSession, error) {
	s := &models.AppSession{}
	err := row.Scan(&s.ID, &s.LearnerID, &s.StartedAt, &s.EndedAt, &s.DurationSeconds, &s.Status, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Start opens a session for the learner, or refreshes the start time of the
// already-open one. The partial unique index on (learner_id) WHERE
// status='active' makes this a single atomic upsert: concurrent starts for
// the same learner can never produce two open sessions.
func (r *SessionRepo) Start(ctx context.Context, learnerID uuid.UUID) (*models.AppSession, error) {
	query := `
		INSERT INTO app_sessions (learner_id, started_at, status)
		VALUES ($1, NOW(), 'active')
		ON CONFLICT (learner_id) WHERE status = 'active'
		DO UPDATE SET started_at = NOW()
		RETURNING ` + sessionColumns

	return scanSession(r.pool.QueryRow(ctx, query, learnerID))
}

// End closes the learner's open session. Returns pgx.ErrNoRows when no open
// session exists, which is also what the loser of a concurrent double-close
// sees.
func (r *SessionRepo) End(ctx context.Context, learnerID uuid.UUID) (*models.AppSession, error) {
	query := `
		UPDATE app_sessions
		SET ended_at = NOW(),
			duration_seconds = FLOOR(EXTRACT(EPOCH FROM (NOW() - started_at)))::INT,
			status = 'completed'
		WHERE learner_id = $1
		  AND status = 'active'
		RETURNING ` + sessionColumns

	return scanSession(r.pool.QueryRow(ctx, query, learnerID))
}

func (r *SessionRepo) ListByLearner(ctx context.Context, learnerID uuid.UUID, page, limit int) ([]*models.AppSession, int, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM app_sessions
		WHERE learner_id = $1
		ORDER BY started_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, learnerID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []*models.AppSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, s)
	}

	var total int
	err = r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM app_sessions WHERE learner_id = $1", learnerID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

// UsageTotals sums the duration of completed sessions. The date range filter
// applies to started_at and only activates when both bounds are present.
func (r *SessionRepo) UsageTotals(ctx context.Context, learnerID uuid.UUID, from, to *time.Time) (int, int, error) {
	query := `
		SELECT COALESCE(SUM(duration_seconds), 0), COUNT(*)
		FROM app_sessions
		WHERE learner_id = $1
		  AND status = 'completed'
		  AND ($2::timestamptz IS NULL OR started_at >= $2)
		  AND ($3::timestamptz IS NULL OR started_at <= $3)`

	var totalSeconds, sessionCount int
	err := r.pool.QueryRow(ctx, query, learnerID, from, to).Scan(&totalSeconds, &sessionCount)
	return totalSeconds, sessionCount, err
}

func (r *SessionRepo) LatestActive(ctx context.Context, learnerID uuid.UUID) (*models.AppSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM app_sessions
		WHERE learner_id = $1 AND status = 'active'
		ORDER BY started_at DESC
		LIMIT 1`

	return scanSession(r.pool.QueryRow(ctx, query, learnerID))
}

func (r *SessionRepo) LatestCompleted(ctx context.Context, learnerID uuid.UUID) (*models.AppSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM app_sessions
		WHERE learner_id = $1 AND status = 'completed'
		ORDER BY ended_at DESC
		LIMIT 1`

	return scanSession(r.pool.QueryRow(ctx, query, learnerID))
}

// RecentWindow returns the latest sessions across all learners, newest start
// first. The presence view reduces this bounded window instead of issuing
// one query per learner.
func (r *SessionRepo) RecentWindow(ctx context.Context, window int) ([]*models.AppSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM app_sessions
		ORDER BY started_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, window)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.AppSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
