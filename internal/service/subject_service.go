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

// SubjectService manages the subject catalog.
type SubjectService struct {
	subjectRepo *repository.SubjectRepository
	log         zerolog.Logger
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(subjectRepo *repository.SubjectRepository, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		log:         log.With().Str("component", "subject_service").Logger(),
	}
}

// Create adds a subject to the catalog.
func (s *SubjectService) Create(ctx context.Context, req *model.CreateSubjectRequest) (*model.Subject, error) {
	subject := &model.Subject{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	}
	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("subject name already exists")
		}
		return nil, apperr.Storagef("create subject", err)
	}
	s.log.Info().Int64("subject_id", subject.ID).Str("name", subject.Name).Msg("Subject created")
	return subject, nil
}

// Get retrieves one subject.
func (s *SubjectService) Get(ctx context.Context, id int64) (*model.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("subject not found")
		}
		return nil, apperr.Storagef("get subject", err)
	}
	return subject, nil
}

// List retrieves a page of subjects.
func (s *SubjectService) List(ctx context.Context, page, limit int) ([]model.Subject, pagination.Page, error) {
	total, err := s.subjectRepo.Count(ctx)
	if err != nil {
		return nil, pagination.Page{}, apperr.Storagef("count subjects", err)
	}
	window := pagination.Paginate(total, page, limit)

	subjects, err := s.subjectRepo.List(ctx, window.Limit, window.Offset)
	if err != nil {
		return nil, pagination.Page{}, apperr.Storagef("list subjects", err)
	}
	return subjects, window, nil
}

// Update applies a partial update to a subject.
func (s *SubjectService) Update(ctx context.Context, id int64, patch *model.SubjectPatch) (*model.Subject, error) {
	if patch.Empty() {
		return nil, apperr.Validation("no fields provided for update")
	}
	n, err := s.subjectRepo.Update(ctx, id, patch)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("subject name already exists")
		}
		return nil, apperr.Storagef("update subject", err)
	}
	if n == 0 {
		return nil, apperr.NotFound("subject not found")
	}
	return s.Get(ctx, id)
}

// Delete removes a subject. Topics and exam pairings cascade.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	n, err := s.subjectRepo.Delete(ctx, id)
	if err != nil {
		return apperr.Storagef("delete subject", err)
	}
	if n == 0 {
		return apperr.NotFound("subject not found")
	}
	s.log.Info().Int64("subject_id", id).Msg("Subject deleted")
	return nil
}
