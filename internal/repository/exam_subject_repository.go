package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepforge/cbt-backend/internal/model"
)

// ExamSubjectRepository handles exam-subject pairing data access.
type ExamSubjectRepository struct {
	pool *pgxpool.Pool
}

// NewExamSubjectRepository creates a new ExamSubjectRepository.
func NewExamSubjectRepository(pool *pgxpool.Pool) *ExamSubjectRepository {
	return &ExamSubjectRepository{pool: pool}
}

const examSubjectColumns = `id, exam_id, subject_id, number_of_questions, time_limit_seconds, scoring_scheme, created_at`

// Create inserts a new exam-subject pairing. The (exam_id, subject_id) pair
// carries a unique constraint; violations surface as pgconn errors.
func (r *ExamSubjectRepository) Create(ctx context.Context, es *model.ExamSubject) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exam_subjects (exam_id, subject_id, number_of_questions, time_limit_seconds, scoring_scheme)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		es.ExamID, es.SubjectID, es.NumberOfQuestions, es.TimeLimitSeconds, es.ScoringScheme,
	).Scan(&es.ID, &es.CreatedAt)
}

// GetByID retrieves an exam-subject pairing by primary key.
func (r *ExamSubjectRepository) GetByID(ctx context.Context, id int64) (*model.ExamSubject, error) {
	es := &model.ExamSubject{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+examSubjectColumns+` FROM exam_subjects WHERE id = $1`, id,
	).Scan(&es.ID, &es.ExamID, &es.SubjectID, &es.NumberOfQuestions,
		&es.TimeLimitSeconds, &es.ScoringScheme, &es.CreatedAt)
	if err != nil {
		return nil, err
	}
	return es, nil
}

// Exists reports whether the exam-subject pairing exists.
func (r *ExamSubjectRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM exam_subjects WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ListByExam retrieves all pairings of one exam.
func (r *ExamSubjectRepository) ListByExam(ctx context.Context, examID int64) ([]model.ExamSubject, error) {
	return r.list(ctx, `exam_id`, examID)
}

// ListBySubject retrieves all pairings of one subject.
func (r *ExamSubjectRepository) ListBySubject(ctx context.Context, subjectID int64) ([]model.ExamSubject, error) {
	return r.list(ctx, `subject_id`, subjectID)
}

func (r *ExamSubjectRepository) list(ctx context.Context, column string, id int64) ([]model.ExamSubject, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examSubjectColumns+` FROM exam_subjects WHERE `+column+` = $1 ORDER BY id ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairings []model.ExamSubject
	for rows.Next() {
		var es model.ExamSubject
		if err := rows.Scan(&es.ID, &es.ExamID, &es.SubjectID, &es.NumberOfQuestions,
			&es.TimeLimitSeconds, &es.ScoringScheme, &es.CreatedAt); err != nil {
			return nil, err
		}
		pairings = append(pairings, es)
	}
	return pairings, rows.Err()
}

// Update applies a typed patch. Returns the number of rows updated.
func (r *ExamSubjectRepository) Update(ctx context.Context, id int64, patch *model.ExamSubjectPatch) (int64, error) {
	var sets []string
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.NumberOfQuestions != nil {
		add("number_of_questions", *patch.NumberOfQuestions)
	}
	if patch.TimeLimitSeconds != nil {
		add("time_limit_seconds", *patch.TimeLimitSeconds)
	}
	if patch.ScoringScheme != nil {
		add("scoring_scheme", *patch.ScoringScheme)
	}

	if len(sets) == 0 {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE exam_subjects SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes an exam-subject pairing.
func (r *ExamSubjectRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exam_subjects WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
