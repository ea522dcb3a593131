package model

import "time"

// SessionType enumerates attempt modes.
type SessionType string

const (
	SessionTypePractice SessionType = "practice"
	SessionTypeTimed    SessionType = "timed"
	SessionTypeMock     SessionType = "mock"
)

// Session represents one student's attempt at an exam-subject.
// EndTime is nil while the session is active; once set it never changes and
// the session accepts no further answers.
type Session struct {
	ID                   int64          `json:"id"`
	UserID               int64          `json:"user_id"`
	ExamSubjectID        int64          `json:"exam_subject_id"`
	StartTime            time.Time      `json:"start_time"`
	EndTime              *time.Time     `json:"end_time,omitempty"`
	TotalQuestions       int            `json:"total_questions"`
	TimeAllocatedSeconds *int           `json:"time_allocated_seconds,omitempty"`
	SessionType          SessionType    `json:"session_type"`
	Settings             map[string]any `json:"settings,omitempty"`
}

// Ended reports whether the session has reached its terminal state.
func (s *Session) Ended() bool {
	return s.EndTime != nil
}

// Answer is one recorded response to one question within a session.
// Answers are immutable once created; corrections are an administrative
// override outside the scoring flow.
type Answer struct {
	ID               int64     `json:"id"`
	SessionID        int64     `json:"session_id"`
	QuestionID       int64     `json:"question_id"`
	SubmittedAnswer  string    `json:"submitted_answer"`
	IsCorrect        bool      `json:"is_correct"`
	TimeTakenSeconds *int      `json:"time_taken_seconds,omitempty"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// SessionResult is the derived, never-persisted summary of a session.
// The score denominator is the session's snapshotted TotalQuestions, so an
// unanswered question counts against the score.
type SessionResult struct {
	SessionID             int64       `json:"session_id"`
	UserID                int64       `json:"user_id"`
	ExamSubjectID         int64       `json:"exam_subject_id"`
	StartTime             time.Time   `json:"start_time"`
	EndTime               *time.Time  `json:"end_time,omitempty"`
	TotalQuestions        int         `json:"total_questions_in_session"`
	TotalAnswered         int         `json:"total_questions_answered"`
	CorrectAnswers        int         `json:"correct_answers"`
	IncorrectAnswers      int         `json:"incorrect_answers"`
	ScorePercentage       float64     `json:"score_percentage"`
	TotalTimeTakenSeconds int         `json:"total_time_taken_seconds"`
	Answers               []Answer    `json:"answers"`
}

// StartSessionRequest is the payload for starting a session.
type StartSessionRequest struct {
	ExamSubjectID        int64          `json:"exam_subject_id" binding:"required,min=1"`
	TotalQuestions       int            `json:"total_questions" binding:"required,min=1"`
	TimeAllocatedSeconds *int           `json:"time_allocated_seconds" binding:"omitempty,min=1"`
	SessionType          string         `json:"session_type" binding:"omitempty,oneof=practice timed mock"`
	Settings             map[string]any `json:"settings" binding:"omitempty"`
}

// UpdateSessionSettingsRequest replaces the settings map wholesale.
type UpdateSessionSettingsRequest struct {
	Settings map[string]any `json:"settings" binding:"required"`
}

// SubmitAnswerRequest is the payload for recording one response.
type SubmitAnswerRequest struct {
	QuestionID       int64  `json:"question_id" binding:"required,min=1"`
	SubmittedAnswer  string `json:"submitted_answer" binding:"required"`
	TimeTakenSeconds *int   `json:"time_taken_seconds" binding:"omitempty,min=0"`
}

// AnswerPatch enumerates the fields an administrator may correct on a
// recorded answer.
type AnswerPatch struct {
	SubmittedAnswer  *string `json:"submitted_answer" binding:"omitempty"`
	IsCorrect        *bool   `json:"is_correct" binding:"omitempty"`
	TimeTakenSeconds *int    `json:"time_taken_seconds" binding:"omitempty,min=0"`
}

// Empty reports whether the patch changes nothing.
func (p *AnswerPatch) Empty() bool {
	return p.SubmittedAnswer == nil && p.IsCorrect == nil && p.TimeTakenSeconds == nil
}

// SessionFilter narrows session listing.
type SessionFilter struct {
	UserID        *int64
	ExamSubjectID *int64
	SessionType   *SessionType
}
