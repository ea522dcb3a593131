package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepforge/cbt-backend/internal/model"
)

// QuestionRepository handles question and option data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, exam_subject_id, topic_id, question_text, question_type, correct_answer, explanation, difficulty_level, created_by_user_id, created_at`

// Create inserts a question and its options in one transaction.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question, options []model.OptionInput) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO questions (exam_subject_id, topic_id, question_text, question_type, correct_answer, explanation, difficulty_level, created_by_user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		q.ExamSubjectID, q.TopicID, q.QuestionText, q.QuestionType,
		q.CorrectAnswer, q.Explanation, q.DifficultyLevel, q.CreatedByUserID,
	).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return err
	}

	if err := insertOptions(ctx, tx, q.ID, options); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	q.Options = nil
	for _, o := range options {
		q.Options = append(q.Options, model.QuestionOption{QuestionID: q.ID, Letter: o.Letter, Text: o.Text})
	}
	return nil
}

func insertOptions(ctx context.Context, tx pgx.Tx, questionID int64, options []model.OptionInput) error {
	for _, o := range options {
		if _, err := tx.Exec(ctx,
			`INSERT INTO question_options (question_id, option_letter, option_text) VALUES ($1, $2, $3)`,
			questionID, o.Letter, o.Text); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a question with its options, ordered by option letter.
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.ExamSubjectID, &q.TopicID, &q.QuestionText, &q.QuestionType,
		&q.CorrectAnswer, &q.Explanation, &q.DifficultyLevel, &q.CreatedByUserID, &q.CreatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, question_id, option_letter, option_text
		 FROM question_options WHERE question_id = $1 ORDER BY option_letter ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var o model.QuestionOption
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Letter, &o.Text); err != nil {
			return nil, err
		}
		q.Options = append(q.Options, o)
	}
	return q, rows.Err()
}

func questionFilterClause(filter model.QuestionFilter, args *[]any) string {
	var conds []string
	if filter.ExamSubjectID != nil {
		*args = append(*args, *filter.ExamSubjectID)
		conds = append(conds, fmt.Sprintf("exam_subject_id = $%d", len(*args)))
	}
	if filter.TopicID != nil {
		*args = append(*args, *filter.TopicID)
		conds = append(conds, fmt.Sprintf("topic_id = $%d", len(*args)))
	}
	if filter.Difficulty != nil {
		*args = append(*args, *filter.Difficulty)
		conds = append(conds, fmt.Sprintf("difficulty_level = $%d", len(*args)))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// Count returns the number of questions matching the filter.
func (r *QuestionRepository) Count(ctx context.Context, filter model.QuestionFilter) (int64, error) {
	args := []any{}
	query := `SELECT COUNT(*) FROM questions` + questionFilterClause(filter, &args)
	var n int64
	err := r.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

// List retrieves questions matching the filter, newest first. Options are not
// loaded for listings.
func (r *QuestionRepository) List(ctx context.Context, filter model.QuestionFilter, limit, offset int) ([]model.Question, error) {
	args := []any{}
	query := `SELECT ` + questionColumns + ` FROM questions` + questionFilterClause(filter, &args)
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.ExamSubjectID, &q.TopicID, &q.QuestionText, &q.QuestionType,
			&q.CorrectAnswer, &q.Explanation, &q.DifficultyLevel, &q.CreatedByUserID, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Update applies a typed patch. A non-nil Options slice replaces the option
// set wholesale inside the same transaction. Returns rows updated (the
// question row counts as updated when only options changed).
func (r *QuestionRepository) Update(ctx context.Context, id int64, patch *model.QuestionPatch) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var sets []string
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.TopicID != nil {
		add("topic_id", *patch.TopicID)
	}
	if patch.QuestionText != nil {
		add("question_text", *patch.QuestionText)
	}
	if patch.QuestionType != nil {
		add("question_type", *patch.QuestionType)
	}
	if patch.CorrectAnswer != nil {
		add("correct_answer", *patch.CorrectAnswer)
	}
	if patch.Explanation != nil {
		add("explanation", *patch.Explanation)
	}
	if patch.DifficultyLevel != nil {
		add("difficulty_level", *patch.DifficultyLevel)
	}

	var updated int64
	if len(sets) > 0 {
		tag, err := tx.Exec(ctx,
			`UPDATE questions SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
		if err != nil {
			return 0, err
		}
		updated = tag.RowsAffected()
	}

	if patch.Options != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM question_options WHERE question_id = $1`, id); err != nil {
			return 0, err
		}
		if err := insertOptions(ctx, tx, id, patch.Options); err != nil {
			return 0, err
		}
		if updated == 0 {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM questions WHERE id = $1)`, id).Scan(&exists); err != nil {
				return 0, err
			}
			if exists {
				updated = 1
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return updated, nil
}

// Delete removes a question; options go with it via FK cascade.
func (r *QuestionRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
