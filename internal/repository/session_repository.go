package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepforge/cbt-backend/internal/model"
)

// SessionRepository handles student session and answer data access.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `id, user_id, exam_subject_id, start_time, end_time, total_questions, time_allocated_seconds, session_type, settings`

func scanSession(row interface{ Scan(...any) error }) (*model.Session, error) {
	s := &model.Session{}
	var settings []byte
	err := row.Scan(&s.ID, &s.UserID, &s.ExamSubjectID, &s.StartTime, &s.EndTime,
		&s.TotalQuestions, &s.TimeAllocatedSeconds, &s.SessionType, &settings)
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &s.Settings); err != nil {
			return nil, fmt.Errorf("decode session settings: %w", err)
		}
	}
	return s, nil
}

func encodeSettings(settings map[string]any) ([]byte, error) {
	if settings == nil {
		return nil, nil
	}
	return json.Marshal(settings)
}

// Create inserts a new session and backfills ID and start time.
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	settings, err := encodeSettings(s.Settings)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO student_sessions (user_id, exam_subject_id, total_questions, time_allocated_seconds, session_type, settings)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, start_time`,
		s.UserID, s.ExamSubjectID, s.TotalQuestions, s.TimeAllocatedSeconds, s.SessionType, settings,
	).Scan(&s.ID, &s.StartTime)
}

// GetByID retrieves a session by primary key.
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM student_sessions WHERE id = $1`, id))
}

// End stamps the end time once. The end_time IS NULL guard makes the update
// a no-op when a concurrent caller ended the session first; the caller
// distinguishes that case via the returned row count.
func (r *SessionRepository) End(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE student_sessions SET end_time = NOW() WHERE id = $1 AND end_time IS NULL`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ReplaceSettings overwrites the settings map of an active session.
// Same end_time IS NULL guard as End.
func (r *SessionRepository) ReplaceSettings(ctx context.Context, id int64, settings map[string]any) (int64, error) {
	encoded, err := encodeSettings(settings)
	if err != nil {
		return 0, err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE student_sessions SET settings = $2 WHERE id = $1 AND end_time IS NULL`, id, encoded)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func sessionFilterClause(filter model.SessionFilter, args *[]any) string {
	var conds []string
	if filter.UserID != nil {
		*args = append(*args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(*args)))
	}
	if filter.ExamSubjectID != nil {
		*args = append(*args, *filter.ExamSubjectID)
		conds = append(conds, fmt.Sprintf("exam_subject_id = $%d", len(*args)))
	}
	if filter.SessionType != nil {
		*args = append(*args, *filter.SessionType)
		conds = append(conds, fmt.Sprintf("session_type = $%d", len(*args)))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// Count returns the number of sessions matching the filter.
func (r *SessionRepository) Count(ctx context.Context, filter model.SessionFilter) (int64, error) {
	args := []any{}
	query := `SELECT COUNT(*) FROM student_sessions` + sessionFilterClause(filter, &args)
	var n int64
	err := r.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

// List retrieves sessions matching the filter, most recently started first.
func (r *SessionRepository) List(ctx context.Context, filter model.SessionFilter, limit, offset int) ([]model.Session, error) {
	args := []any{}
	query := `SELECT ` + sessionColumns + ` FROM student_sessions` + sessionFilterClause(filter, &args)
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY start_time DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// Delete removes a session and its answers (FK cascade). Administrative only.
func (r *SessionRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM student_sessions WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ─── Answers ────────────────────────────────────────────────────────────────

const answerColumns = `id, session_id, question_id, submitted_answer, is_correct, time_taken_seconds, submitted_at`

// CreateAnswer inserts one answer record. There is deliberately no uniqueness
// constraint on (session_id, question_id): duplicate submissions both persist.
func (r *SessionRepository) CreateAnswer(ctx context.Context, a *model.Answer) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO student_answers (session_id, question_id, submitted_answer, is_correct, time_taken_seconds)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, submitted_at`,
		a.SessionID, a.QuestionID, a.SubmittedAnswer, a.IsCorrect, a.TimeTakenSeconds,
	).Scan(&a.ID, &a.SubmittedAt)
}

// GetAnswerByID retrieves one answer.
func (r *SessionRepository) GetAnswerByID(ctx context.Context, id int64) (*model.Answer, error) {
	a := &model.Answer{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+answerColumns+` FROM student_answers WHERE id = $1`, id,
	).Scan(&a.ID, &a.SessionID, &a.QuestionID, &a.SubmittedAnswer, &a.IsCorrect,
		&a.TimeTakenSeconds, &a.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAnswersBySession retrieves every answer of a session in submission
// order. The id tiebreak keeps duplicates submitted in the same instant
// stable.
func (r *SessionRepository) ListAnswersBySession(ctx context.Context, sessionID int64) ([]model.Answer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+answerColumns+` FROM student_answers
		 WHERE session_id = $1 ORDER BY submitted_at ASC, id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.Answer
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.ID, &a.SessionID, &a.QuestionID, &a.SubmittedAnswer,
			&a.IsCorrect, &a.TimeTakenSeconds, &a.SubmittedAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// CountAnswers returns the total number of recorded answers.
func (r *SessionRepository) CountAnswers(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM student_answers`).Scan(&n)
	return n, err
}

// ListAnswers retrieves answers across sessions, newest first. Administrative.
func (r *SessionRepository) ListAnswers(ctx context.Context, limit, offset int) ([]model.Answer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+answerColumns+` FROM student_answers
		 ORDER BY submitted_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.Answer
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.ID, &a.SessionID, &a.QuestionID, &a.SubmittedAnswer,
			&a.IsCorrect, &a.TimeTakenSeconds, &a.SubmittedAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// UpdateAnswer applies an administrative correction. Returns rows updated.
func (r *SessionRepository) UpdateAnswer(ctx context.Context, id int64, patch *model.AnswerPatch) (int64, error) {
	var sets []string
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.SubmittedAnswer != nil {
		add("submitted_answer", *patch.SubmittedAnswer)
	}
	if patch.IsCorrect != nil {
		add("is_correct", *patch.IsCorrect)
	}
	if patch.TimeTakenSeconds != nil {
		add("time_taken_seconds", *patch.TimeTakenSeconds)
	}

	if len(sets) == 0 {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE student_answers SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteAnswer removes an answer record. Administrative only.
func (r *SessionRepository) DeleteAnswer(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM student_answers WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
