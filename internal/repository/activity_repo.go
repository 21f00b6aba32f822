package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"littlesteps-backend/internal/models"
)

type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

func (r *ActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	a := &models.Activity{}
	query := `
		SELECT id, kind, subtype, title, category, level, class_id, created_by, created_at
		FROM activities WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Kind, &a.Subtype, &a.Title, &a.Category, &a.Level,
		&a.ClassID, &a.CreatedBy, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetMeta is the catalog lookup used by reporting paths only.
func (r *ActivityRepo) GetMeta(ctx context.Context, id uuid.UUID) (*models.ActivityMeta, error) {
	m := &models.ActivityMeta{}
	query := `SELECT id, kind, subtype, title, category, level FROM activities WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Kind, &m.Subtype, &m.Title, &m.Category, &m.Level)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetMetaByIDs bulk-fetches catalog metadata; ids that cannot be resolved
// are absent from the map and reporting omits them.
func (r *ActivityRepo) GetMetaByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.ActivityMeta, error) {
	query := `SELECT id, kind, subtype, title, category, level FROM activities WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metas := make(map[uuid.UUID]*models.ActivityMeta)
	for rows.Next() {
		m := &models.ActivityMeta{}
		if err := rows.Scan(&m.ID, &m.Kind, &m.Subtype, &m.Title, &m.Category, &m.Level); err != nil {
			return nil, err
		}
		metas[m.ID] = m
	}
	return metas, nil
}
