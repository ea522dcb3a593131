package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prepforge/cbt-backend/internal/apperr"
	"github.com/prepforge/cbt-backend/internal/config"
	"github.com/prepforge/cbt-backend/internal/model"
)

// ActivityEvent is one queued platform activity notification, consumed in
// batches by the activity worker.
type ActivityEvent struct {
	Type          string    `json:"type"`
	ExamSubjectID int64     `json:"exam_subject_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Event types understood by the activity worker.
const (
	EventSessionStarted  = "session_started"
	EventSessionEnded    = "session_ended"
	EventAnswerSubmitted = "answer_submitted"
)

// StatsService publishes activity events and serves the daily activity
// snapshot the worker maintains. Publishing is best-effort: a full or
// unreachable queue is logged and dropped, never surfaced to the caller.
type StatsService struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(rdb *redis.Client, log zerolog.Logger) *StatsService {
	return &StatsService{
		rdb: rdb,
		log: log.With().Str("component", "stats_service").Logger(),
	}
}

func (s *StatsService) publish(ctx context.Context, eventType string, examSubjectID int64) {
	event := ActivityEvent{
		Type:          eventType,
		ExamSubjectID: examSubjectID,
		OccurredAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to encode activity event")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.ActivityEventsQueue, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("type", eventType).Msg("Failed to queue activity event")
	}
}

// SessionStarted queues a session-start event.
func (s *StatsService) SessionStarted(ctx context.Context, examSubjectID int64) {
	s.publish(ctx, EventSessionStarted, examSubjectID)
}

// SessionEnded queues a session-end event.
func (s *StatsService) SessionEnded(ctx context.Context, examSubjectID int64) {
	s.publish(ctx, EventSessionEnded, examSubjectID)
}

// AnswerSubmitted queues an answer-submission event.
func (s *StatsService) AnswerSubmitted(ctx context.Context, examSubjectID int64) {
	s.publish(ctx, EventAnswerSubmitted, examSubjectID)
}

// DailyStats reads the activity counters for one day. Days with no recorded
// activity return zeroes, not an error.
func (s *StatsService) DailyStats(ctx context.Context, day time.Time) (*model.DailyStats, error) {
	fields, err := s.rdb.HGetAll(ctx, config.CacheKey.DailyStatsKey(day)).Result()
	if err != nil {
		return nil, apperr.Storagef("read daily stats", err)
	}

	stats := &model.DailyStats{Day: day.UTC().Format("2006-01-02")}
	for field, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		switch field {
		case EventSessionStarted:
			stats.SessionsStarted = n
		case EventSessionEnded:
			stats.SessionsEnded = n
		case EventAnswerSubmitted:
			stats.AnswersSubmitted = n
		}
	}
	return stats, nil
}
