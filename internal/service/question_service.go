package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/prepforge/cbt-backend/internal/apperr"
	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/pagination"
	"github.com/prepforge/cbt-backend/internal/repository"
)

// QuestionService manages the question bank.
type QuestionService struct {
	questionRepo    *repository.QuestionRepository
	examSubjectRepo *repository.ExamSubjectRepository
	log             zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository, examSubjectRepo *repository.ExamSubjectRepository, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questionRepo:    questionRepo,
		examSubjectRepo: examSubjectRepo,
		log:             log.With().Str("component", "question_service").Logger(),
	}
}

// validateOptions checks that multiple-choice options use distinct letters
// and that the canonical answer refers to one of them.
func validateOptions(questionType model.QuestionType, correctAnswer string, options []model.OptionInput) error {
	if questionType != model.QuestionTypeMultipleChoice {
		if len(options) > 0 {
			return apperr.Validation(fmt.Sprintf("%s questions cannot carry options", questionType))
		}
		return nil
	}
	if len(options) < 2 {
		return apperr.Validation("multiple_choice questions need at least two options")
	}
	seen := make(map[string]bool, len(options))
	matched := false
	for _, opt := range options {
		if seen[opt.Letter] {
			return apperr.ValidationFields("duplicate option letter", map[string]string{"letter": opt.Letter})
		}
		seen[opt.Letter] = true
		if opt.Letter == correctAnswer {
			matched = true
		}
	}
	if !matched {
		return apperr.Validation("correct_answer must match an option letter")
	}
	return nil
}

// Create adds a question, with its options for multiple-choice types.
func (s *QuestionService) Create(ctx context.Context, requester Identity, req *model.CreateQuestionRequest) (*model.Question, error) {
	questionType := model.QuestionType(req.QuestionType)
	if !questionType.Valid() {
		return nil, apperr.Validation("invalid question type")
	}
	if err := validateOptions(questionType, req.CorrectAnswer, req.Options); err != nil {
		return nil, err
	}

	exists, err := s.examSubjectRepo.Exists(ctx, req.ExamSubjectID)
	if err != nil {
		return nil, apperr.Storagef("check exam subject", err)
	}
	if !exists {
		return nil, apperr.Validation("invalid exam subject")
	}

	question := &model.Question{
		ExamSubjectID:   req.ExamSubjectID,
		TopicID:         req.TopicID,
		QuestionType:    questionType,
		QuestionText:    req.QuestionText,
		CorrectAnswer:   req.CorrectAnswer,
		Explanation:     req.Explanation,
		DifficultyLevel: req.DifficultyLevel,
		CreatedByUserID: requester.UserID,
	}
	if err := s.questionRepo.Create(ctx, question, req.Options); err != nil {
		return nil, apperr.Storagef("create question", err)
	}
	s.log.Info().
		Int64("question_id", question.ID).
		Str("type", string(question.QuestionType)).
		Msg("Question created")
	return question, nil
}

// Get retrieves one question with its options.
func (s *QuestionService) Get(ctx context.Context, id int64) (*model.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("question not found")
		}
		return nil, apperr.Storagef("get question", err)
	}
	return question, nil
}

// List retrieves a page of questions matching the filter.
func (s *QuestionService) List(ctx context.Context, filter model.QuestionFilter, page, limit int) ([]model.Question, pagination.Page, error) {
	total, err := s.questionRepo.Count(ctx, filter)
	if err != nil {
		return nil, pagination.Page{}, apperr.Storagef("count questions", err)
	}
	window := pagination.Paginate(total, page, limit)

	questions, err := s.questionRepo.List(ctx, filter, window.Limit, window.Offset)
	if err != nil {
		return nil, pagination.Page{}, apperr.Storagef("list questions", err)
	}
	return questions, window, nil
}

// Update applies a partial update. Changing the canonical answer does not
// reclassify answers already recorded against the old one.
func (s *QuestionService) Update(ctx context.Context, id int64, patch *model.QuestionPatch) (*model.Question, error) {
	if patch.Empty() {
		return nil, apperr.Validation("no fields provided for update")
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Options != nil || patch.CorrectAnswer != nil {
		correct := current.CorrectAnswer
		if patch.CorrectAnswer != nil {
			correct = *patch.CorrectAnswer
		}
		options := patch.Options
		if options == nil {
			for _, opt := range current.Options {
				options = append(options, model.OptionInput{Letter: opt.Letter, Text: opt.Text})
			}
		}
		if err := validateOptions(current.QuestionType, correct, options); err != nil {
			return nil, err
		}
	}

	n, err := s.questionRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, apperr.Storagef("update question", err)
	}
	if n == 0 {
		return nil, apperr.NotFound("question not found")
	}
	return s.Get(ctx, id)
}

// Delete removes a question and its options.
func (s *QuestionService) Delete(ctx context.Context, id int64) error {
	n, err := s.questionRepo.Delete(ctx, id)
	if err != nil {
		return apperr.Storagef("delete question", err)
	}
	if n == 0 {
		return apperr.NotFound("question not found")
	}
	return nil
}
