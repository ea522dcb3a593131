package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/prepforge/cbt-backend/internal/apperr"
	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/pagination"
	"github.com/prepforge/cbt-backend/internal/repository"
)

// ExamService manages exams and their subject pairings.
type ExamService struct {
	examRepo        *repository.ExamRepository
	examSubjectRepo *repository.ExamSubjectRepository
	subjectRepo     *repository.SubjectRepository
	log             zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	examRepo *repository.ExamRepository,
	examSubjectRepo *repository.ExamSubjectRepository,
	subjectRepo *repository.SubjectRepository,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		examRepo:        examRepo,
		examSubjectRepo: examSubjectRepo,
		subjectRepo:     subjectRepo,
		log:             log.With().Str("component", "exam_service").Logger(),
	}
}

// Create adds an exam.
func (s *ExamService) Create(ctx context.Context, req *model.CreateExamRequest) (*model.Exam, error) {
	exam := &model.Exam{
		Name:         req.Name,
		Abbreviation: req.Abbreviation,
		Description:  req.Description,
		IsActive:     true,
	}
	if req.IsActive != nil {
		exam.IsActive = *req.IsActive
	}
	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, apperr.Storagef("create exam", err)
	}
	s.log.Info().Int64("exam_id", exam.ID).Str("name", exam.Name).Msg("Exam created")
	return exam, nil
}

// Get retrieves one exam.
func (s *ExamService) Get(ctx context.Context, id int64) (*model.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("exam not found")
		}
		return nil, apperr.Storagef("get exam", err)
	}
	return exam, nil
}

// List retrieves a page of exams, optionally filtered by active status.
func (s *ExamService) List(ctx context.Context, isActive *bool, page, limit int) ([]model.Exam, pagination.Page, error) {
	total, err := s.examRepo.Count(ctx, isActive)
	if err != nil {
		return nil, pagination.Page{}, apperr.Storagef("count exams", err)
	}
	window := pagination.Paginate(total, page, limit)

	exams, err := s.examRepo.List(ctx, isActive, window.Limit, window.Offset)
	if err != nil {
		return nil, pagination.Page{}, apperr.Storagef("list exams", err)
	}
	return exams, window, nil
}

// Update applies a partial update to an exam.
func (s *ExamService) Update(ctx context.Context, id int64, patch *model.ExamPatch) (*model.Exam, error) {
	if patch.Empty() {
		return nil, apperr.Validation("no fields provided for update")
	}
	n, err := s.examRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, apperr.Storagef("update exam", err)
	}
	if n == 0 {
		return nil, apperr.NotFound("exam not found")
	}
	return s.Get(ctx, id)
}

// Delete removes an exam and its subject pairings.
func (s *ExamService) Delete(ctx context.Context, id int64) error {
	n, err := s.examRepo.Delete(ctx, id)
	if err != nil {
		return apperr.Storagef("delete exam", err)
	}
	if n == 0 {
		return apperr.NotFound("exam not found")
	}
	s.log.Info().Int64("exam_id", id).Msg("Exam deleted")
	return nil
}

// AddSubject pairs a subject with an exam. Each pairing carries the question
// count and time limit used when sessions are started against it.
func (s *ExamService) AddSubject(ctx context.Context, req *model.CreateExamSubjectRequest) (*model.ExamSubject, error) {
	if req.NumberOfQuestions <= 0 {
		return nil, apperr.Validation("number_of_questions must be a positive integer")
	}
	if _, err := s.Get(ctx, req.ExamID); err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Validation("invalid exam")
		}
		return nil, err
	}
	if _, err := s.subjectRepo.GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Validation("invalid subject")
		}
		return nil, apperr.Storagef("get subject", err)
	}

	es := &model.ExamSubject{
		ExamID:            req.ExamID,
		SubjectID:         req.SubjectID,
		NumberOfQuestions: req.NumberOfQuestions,
		TimeLimitSeconds:  req.TimeLimitSeconds,
		ScoringScheme:     req.ScoringScheme,
	}
	if err := s.examSubjectRepo.Create(ctx, es); err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("subject already paired with this exam")
		}
		return nil, apperr.Storagef("create exam subject", err)
	}
	return es, nil
}

// GetSubjectPairing retrieves one exam-subject pairing.
func (s *ExamService) GetSubjectPairing(ctx context.Context, id int64) (*model.ExamSubject, error) {
	es, err := s.examSubjectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("exam subject not found")
		}
		return nil, apperr.Storagef("get exam subject", err)
	}
	return es, nil
}

// ListSubjectsByExam retrieves all subject pairings for one exam.
func (s *ExamService) ListSubjectsByExam(ctx context.Context, examID int64) ([]model.ExamSubject, error) {
	pairs, err := s.examSubjectRepo.ListByExam(ctx, examID)
	if err != nil {
		return nil, apperr.Storagef("list exam subjects", err)
	}
	return pairs, nil
}

// ListExamsBySubject retrieves all pairings that reference one subject.
func (s *ExamService) ListExamsBySubject(ctx context.Context, subjectID int64) ([]model.ExamSubject, error) {
	pairs, err := s.examSubjectRepo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, apperr.Storagef("list exam subjects", err)
	}
	return pairs, nil
}

// UpdateSubjectPairing applies a partial update to an exam-subject pairing.
// Changing the question count here never touches running sessions; they keep
// the count snapshotted at start.
func (s *ExamService) UpdateSubjectPairing(ctx context.Context, id int64, patch *model.ExamSubjectPatch) (*model.ExamSubject, error) {
	if patch.Empty() {
		return nil, apperr.Validation("no fields provided for update")
	}
	if patch.NumberOfQuestions != nil && *patch.NumberOfQuestions <= 0 {
		return nil, apperr.Validation("number_of_questions must be a positive integer")
	}
	n, err := s.examSubjectRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, apperr.Storagef("update exam subject", err)
	}
	if n == 0 {
		return nil, apperr.NotFound("exam subject not found")
	}
	return s.GetSubjectPairing(ctx, id)
}

// RemoveSubjectPairing deletes an exam-subject pairing.
func (s *ExamService) RemoveSubjectPairing(ctx context.Context, id int64) error {
	n, err := s.examSubjectRepo.Delete(ctx, id)
	if err != nil {
		return apperr.Storagef("delete exam subject", err)
	}
	if n == 0 {
		return apperr.NotFound("exam subject not found")
	}
	return nil
}
