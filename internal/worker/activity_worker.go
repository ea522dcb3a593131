package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prepforge/cbt-backend/internal/config"
	"github.com/prepforge/cbt-backend/internal/service"
)

const (
	ActivityBatchSize    = 100
	ActivityBatchTimeout = 2 * time.Second
	ActivityPollTimeout  = 1 * time.Second

	// Daily hashes expire after 90 days; the snapshot endpoint only ever
	// reads recent days.
	dailyStatsTTL = 90 * 24 * time.Hour
)

// ActivityWorker drains the activity event queue and folds events into
// per-day counter hashes in Redis.
type ActivityWorker struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewActivityWorker creates a new ActivityWorker.
func NewActivityWorker(rdb *redis.Client, log zerolog.Logger) *ActivityWorker {
	return &ActivityWorker{
		rdb: rdb,
		log: log.With().Str("component", "activity_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled. Remaining batched
// events are flushed on shutdown.
func (w *ActivityWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ActivityWorker started")

	batch := make([]*service.ActivityEvent, 0, ActivityBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ActivityBatchSize || time.Since(lastFlush) >= ActivityBatchTimeout) {

			w.flush(context.Background(), batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flush(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ActivityPollTimeout, config.WorkerKey.ActivityEventsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var event service.ActivityEvent
			if err := json.Unmarshal([]byte(item[1]), &event); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &event)
		}
	}
}

// flush folds a batch into per-day hashes with a single pipeline round trip.
func (w *ActivityWorker) flush(ctx context.Context, batch []*service.ActivityEvent) {
	if len(batch) == 0 {
		return
	}

	// Collapse the batch in memory first so the pipeline carries one
	// HINCRBY per (day, type) instead of one per event.
	type bucket struct {
		day   time.Time
		field string
	}
	counts := make(map[bucket]int64, len(batch))
	for _, event := range batch {
		day := event.OccurredAt.UTC().Truncate(24 * time.Hour)
		counts[bucket{day: day, field: event.Type}]++
	}

	pipe := w.rdb.Pipeline()
	for b, n := range counts {
		key := config.CacheKey.DailyStatsKey(b.day)
		pipe.HIncrBy(ctx, key, b.field, n)
		pipe.Expire(ctx, key, dailyStatsTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Int("events", len(batch)).Msg("Failed to flush activity batch")
		return
	}

	w.log.Debug().Int("events", len(batch)).Int("buckets", len(counts)).Msg("Activity batch flushed")
}
