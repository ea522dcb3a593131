package model

import "time"

// Exam represents an examination programme (e.g. a national entrance exam).
type Exam struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	Description  *string   `json:"description,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateExamRequest is the payload for creating an exam.
type CreateExamRequest struct {
	Name         string  `json:"name" binding:"required,min=2,max=150"`
	Abbreviation string  `json:"abbreviation" binding:"required,min=2,max=20"`
	Description  *string `json:"description" binding:"omitempty,max=2000"`
	IsActive     *bool   `json:"is_active" binding:"omitempty"`
}

// ExamPatch enumerates the mutable exam fields.
type ExamPatch struct {
	Name         *string `json:"name" binding:"omitempty,min=2,max=150"`
	Abbreviation *string `json:"abbreviation" binding:"omitempty,min=2,max=20"`
	Description  *string `json:"description" binding:"omitempty,max=2000"`
	IsActive     *bool   `json:"is_active" binding:"omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p *ExamPatch) Empty() bool {
	return p.Name == nil && p.Abbreviation == nil && p.Description == nil && p.IsActive == nil
}

// ExamSubject pairs an exam with a subject and carries the question-count and
// time-limit configuration for that pairing.
type ExamSubject struct {
	ID               int64     `json:"id"`
	ExamID           int64     `json:"exam_id"`
	SubjectID        int64     `json:"subject_id"`
	NumberOfQuestions int      `json:"number_of_questions"`
	TimeLimitSeconds *int      `json:"time_limit_seconds,omitempty"`
	ScoringScheme    *string   `json:"scoring_scheme,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateExamSubjectRequest is the payload for pairing an exam with a subject.
type CreateExamSubjectRequest struct {
	ExamID            int64   `json:"exam_id" binding:"required,min=1"`
	SubjectID         int64   `json:"subject_id" binding:"required,min=1"`
	NumberOfQuestions int     `json:"number_of_questions" binding:"required,min=1"`
	TimeLimitSeconds  *int    `json:"time_limit_seconds" binding:"omitempty,min=1"`
	ScoringScheme     *string `json:"scoring_scheme" binding:"omitempty,max=50"`
}

// ExamSubjectPatch enumerates the mutable exam-subject fields.
type ExamSubjectPatch struct {
	NumberOfQuestions *int    `json:"number_of_questions" binding:"omitempty,min=1"`
	TimeLimitSeconds  *int    `json:"time_limit_seconds" binding:"omitempty,min=1"`
	ScoringScheme     *string `json:"scoring_scheme" binding:"omitempty,max=50"`
}

// Empty reports whether the patch changes nothing.
func (p *ExamSubjectPatch) Empty() bool {
	return p.NumberOfQuestions == nil && p.TimeLimitSeconds == nil && p.ScoringScheme == nil
}
