package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/prepforge/cbt-backend/internal/apperr"
	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/repository"
)

// TopicService manages topics, the per-subject grouping for questions.
type TopicService struct {
	topicRepo   *repository.TopicRepository
	subjectRepo *repository.SubjectRepository
	log         zerolog.Logger
}

// NewTopicService creates a new TopicService.
func NewTopicService(topicRepo *repository.TopicRepository, subjectRepo *repository.SubjectRepository, log zerolog.Logger) *TopicService {
	return &TopicService{
		topicRepo:   topicRepo,
		subjectRepo: subjectRepo,
		log:         log.With().Str("component", "topic_service").Logger(),
	}
}

// Create adds a topic under an existing subject.
func (s *TopicService) Create(ctx context.Context, req *model.CreateTopicRequest) (*model.Topic, error) {
	if _, err := s.subjectRepo.GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Validation("invalid subject")
		}
		return nil, apperr.Storagef("get subject", err)
	}

	topic := &model.Topic{
		SubjectID:   req.SubjectID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.topicRepo.Create(ctx, topic); err != nil {
		return nil, apperr.Storagef("create topic", err)
	}
	return topic, nil
}

// Get retrieves one topic.
func (s *TopicService) Get(ctx context.Context, id int64) (*model.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("topic not found")
		}
		return nil, apperr.Storagef("get topic", err)
	}
	return topic, nil
}

// ListBySubject retrieves all topics under one subject. Topic lists are
// small enough that pagination buys nothing here.
func (s *TopicService) ListBySubject(ctx context.Context, subjectID int64) ([]model.Topic, error) {
	topics, err := s.topicRepo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, apperr.Storagef("list topics", err)
	}
	return topics, nil
}

// Update applies a partial update to a topic.
func (s *TopicService) Update(ctx context.Context, id int64, patch *model.TopicPatch) (*model.Topic, error) {
	if patch.Empty() {
		return nil, apperr.Validation("no fields provided for update")
	}
	n, err := s.topicRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, apperr.Storagef("update topic", err)
	}
	if n == 0 {
		return nil, apperr.NotFound("topic not found")
	}
	return s.Get(ctx, id)
}

// Delete removes a topic. Questions keep their records; topic_id is nulled
// by the schema.
func (s *TopicService) Delete(ctx context.Context, id int64) error {
	n, err := s.topicRepo.Delete(ctx, id)
	if err != nil {
		return apperr.Storagef("delete topic", err)
	}
	if n == 0 {
		return apperr.NotFound("topic not found")
	}
	return nil
}
