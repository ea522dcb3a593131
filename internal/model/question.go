package model

import "time"

// QuestionType enumerates supported question formats.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeShortAnswer    QuestionType = "short_answer"
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalse, QuestionTypeShortAnswer:
		return true
	}
	return false
}

// Question represents a single question within an exam-subject.
// CorrectAnswer holds the canonical answer in the question's encoding
// (an option letter for multiple choice, free text otherwise).
type Question struct {
	ID              int64            `json:"id"`
	ExamSubjectID   int64            `json:"exam_subject_id"`
	TopicID         *int64           `json:"topic_id,omitempty"`
	QuestionText    string           `json:"question_text"`
	QuestionType    QuestionType     `json:"question_type"`
	CorrectAnswer   string           `json:"correct_answer,omitempty"`
	Explanation     *string          `json:"explanation,omitempty"`
	DifficultyLevel *string          `json:"difficulty_level,omitempty"`
	CreatedByUserID int64            `json:"created_by_user_id"`
	CreatedAt       time.Time        `json:"created_at"`
	Options         []QuestionOption `json:"options,omitempty"`
}

// QuestionOption is one selectable option of a multiple-choice question.
type QuestionOption struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Letter     string `json:"option_letter"`
	Text       string `json:"option_text"`
}

// OptionInput is one option in a create/update question payload.
type OptionInput struct {
	Letter string `json:"option_letter" binding:"required,min=1,max=5"`
	Text   string `json:"option_text" binding:"required,min=1,max=2000"`
}

// CreateQuestionRequest is the payload for creating a question with options.
type CreateQuestionRequest struct {
	ExamSubjectID   int64         `json:"exam_subject_id" binding:"required,min=1"`
	TopicID         *int64        `json:"topic_id" binding:"omitempty,min=1"`
	QuestionText    string        `json:"question_text" binding:"required,min=1,max=5000"`
	QuestionType    string        `json:"question_type" binding:"required,oneof=multiple_choice true_false short_answer"`
	CorrectAnswer   string        `json:"correct_answer" binding:"required,min=1,max=2000"`
	Explanation     *string       `json:"explanation" binding:"omitempty,max=5000"`
	DifficultyLevel *string       `json:"difficulty_level" binding:"omitempty,oneof=easy medium hard"`
	Options         []OptionInput `json:"options" binding:"omitempty,dive"`
}

// QuestionPatch enumerates the mutable question fields. A non-nil Options
// slice replaces the option set wholesale.
type QuestionPatch struct {
	TopicID         *int64        `json:"topic_id" binding:"omitempty,min=1"`
	QuestionText    *string       `json:"question_text" binding:"omitempty,min=1,max=5000"`
	QuestionType    *string       `json:"question_type" binding:"omitempty,oneof=multiple_choice true_false short_answer"`
	CorrectAnswer   *string       `json:"correct_answer" binding:"omitempty,min=1,max=2000"`
	Explanation     *string       `json:"explanation" binding:"omitempty,max=5000"`
	DifficultyLevel *string       `json:"difficulty_level" binding:"omitempty,oneof=easy medium hard"`
	Options         []OptionInput `json:"options" binding:"omitempty,dive"`
}

// Empty reports whether the patch changes nothing.
func (p *QuestionPatch) Empty() bool {
	return p.TopicID == nil && p.QuestionText == nil && p.QuestionType == nil &&
		p.CorrectAnswer == nil && p.Explanation == nil && p.DifficultyLevel == nil &&
		p.Options == nil
}

// QuestionFilter narrows question listing.
type QuestionFilter struct {
	ExamSubjectID *int64
	TopicID       *int64
	Difficulty    *string
}
