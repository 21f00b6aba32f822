package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"littlesteps-backend/internal/models"
)

type LearnerRepo struct {
	pool *pgxpool.Pool
}

func NewLearnerRepo(pool *pgxpool.Pool) *LearnerRepo {
	return &LearnerRepo{pool: pool}
}

const learnerColumns = "id, full_name, avatar_url, guardian_id, class_id, level, created_at"

func scanLearner(row interface{ Scan(...any) error }) (*models.Learner, error) {
	l := &models.Learner{}
	err := row.Scan(&l.ID, &l.FullName, &l.AvatarURL, &l.GuardianID, &l.ClassID, &l.Level, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LearnerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Learner, error) {
	query := `SELECT ` + learnerColumns + ` FROM learners WHERE id = $1`
	return scanLearner(r.pool.QueryRow(ctx, query, id))
}

// GetOwnedByGuardian returns the learner only when the caller is its
// guardian. Roster resolution fails closed on any mismatch.
func (r *LearnerRepo) GetOwnedByGuardian(ctx context.Context, learnerID, guardianID uuid.UUID) (*models.Learner, error) {
	query := `SELECT ` + learnerColumns + ` FROM learners WHERE id = $1 AND guardian_id = $2`
	return scanLearner(r.pool.QueryRow(ctx, query, learnerID, guardianID))
}

// GetByIDs fetches learner profiles in bulk, keyed by id. Missing ids are
// simply absent from the map.
func (r *LearnerRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Learner, error) {
	query := `SELECT ` + learnerColumns + ` FROM learners WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	learners := make(map[uuid.UUID]*models.Learner)
	for rows.Next() {
		l, err := scanLearner(rows)
		if err != nil {
			return nil, err
		}
		learners[l.ID] = l
	}
	return learners, nil
}

func (r *LearnerRepo) ListByClass(ctx context.Context, classID uuid.UUID) ([]*models.Learner, error) {
	query := `SELECT ` + learnerColumns + ` FROM learners WHERE class_id = $1 ORDER BY full_name`

	rows, err := r.pool.Query(ctx, query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var learners []*models.Learner
	for rows.Next() {
		l, err := scanLearner(rows)
		if err != nil {
			return nil, err
		}
		learners = append(learners, l)
	}
	return learners, nil
}
