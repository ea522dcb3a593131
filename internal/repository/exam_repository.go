package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepforge/cbt-backend/internal/model"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (name, abbreviation, description, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		e.Name, e.Abbreviation, e.Description, e.IsActive,
	).Scan(&e.ID, &e.CreatedAt)
}

// GetByID retrieves an exam by primary key.
func (r *ExamRepository) GetByID(ctx context.Context, id int64) (*model.Exam, error) {
	e := &model.Exam{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, abbreviation, description, is_active, created_at
		 FROM exams WHERE id = $1`, id,
	).Scan(&e.ID, &e.Name, &e.Abbreviation, &e.Description, &e.IsActive, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Count returns the number of exams, optionally filtered by active flag.
func (r *ExamRepository) Count(ctx context.Context, isActive *bool) (int64, error) {
	query := `SELECT COUNT(*) FROM exams`
	args := []any{}
	if isActive != nil {
		query += ` WHERE is_active = $1`
		args = append(args, *isActive)
	}
	var n int64
	err := r.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

// List retrieves exams newest first, optionally filtered by active flag.
func (r *ExamRepository) List(ctx context.Context, isActive *bool, limit, offset int) ([]model.Exam, error) {
	query := `SELECT id, name, abbreviation, description, is_active, created_at FROM exams`
	args := []any{}
	if isActive != nil {
		args = append(args, *isActive)
		query += fmt.Sprintf(` WHERE is_active = $%d`, len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.Name, &e.Abbreviation, &e.Description, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// Update applies a typed patch. Returns the number of rows updated.
func (r *ExamRepository) Update(ctx context.Context, id int64, patch *model.ExamPatch) (int64, error) {
	var sets []string
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Abbreviation != nil {
		add("abbreviation", *patch.Abbreviation)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}

	if len(sets) == 0 {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE exams SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes an exam.
func (r *ExamRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
