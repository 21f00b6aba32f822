package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClassRepo struct {
	pool *pgxpool.Pool
}

func NewClassRepo(pool *pgxpool.Pool) *ClassRepo {
	return &ClassRepo{pool: pool}
}

// TeacherHasActivityAccess reports whether the teacher runs the class the
// activity is assigned to, or created the activity. Grading consults this
// before touching a record.
func (r *ClassRepo) TeacherHasActivityAccess(ctx context.Context, teacherID, activityID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM activities a
			LEFT JOIN classes c ON c.id = a.class_id
			WHERE a.id = $1
			  AND (c.teacher_id = $2 OR a.created_by = $2)
		)`

	var ok bool
	err := r.pool.QueryRow(ctx, query, activityID, teacherID).Scan(&ok)
	return ok, err
}
