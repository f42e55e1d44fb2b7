package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/anoexpected/stemhub-backend/internal/config"
	"github.com/anoexpected/stemhub-backend/internal/model"
	"github.com/anoexpected/stemhub-backend/internal/repository"
)

// PendingSweeper periodically scans for submissions that have sat in the
// review queue too long and emits reminder events so admin dashboards can
// surface them.
type PendingSweeper struct {
	contentRepo   *repository.ContentRepository
	rdb           *redis.Client
	log           zerolog.Logger
	reminderAfter time.Duration
	interval      time.Duration
}

// NewPendingSweeper creates a new PendingSweeper.
func NewPendingSweeper(
	contentRepo *repository.ContentRepository,
	rdb *redis.Client,
	log zerolog.Logger,
	reminderAfter time.Duration,
	interval time.Duration,
) *PendingSweeper {
	return &PendingSweeper{
		contentRepo:   contentRepo,
		rdb:           rdb,
		log:           log.With().Str("component", "pending_sweeper").Logger(),
		reminderAfter: reminderAfter,
		interval:      interval,
	}
}

// Start begins the sweep loop. Call in a goroutine.
func (w *PendingSweeper) Start(ctx context.Context) {
	w.log.Info().
		Dur("reminder_after", w.reminderAfter).
		Dur("interval", w.interval).
		Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *PendingSweeper) sweep(ctx context.Context) {
	now := time.Now()
	cutoff := now.Add(-w.reminderAfter)

	stale, err := w.contentRepo.ListStalePending(ctx, cutoff)
	if err != nil {
		w.log.Error().Err(err).Msg("Stale pending query failed")
		return
	}
	if len(stale) == 0 {
		return
	}

	reminded := 0
	for i := range stale {
		item := &stale[i]

		// SetNX keeps us from re-reminding the same item on every sweep
		// until the suppression window lapses.
		key := config.CacheKey.ReviewReminderKey(item.ID.String())
		ok, err := w.rdb.SetNX(ctx, key, now.Format(time.RFC3339), w.reminderAfter).Result()
		if err != nil {
			w.log.Error().Err(err).Str("content_id", item.ID.String()).Msg("Reminder dedup failed")
			continue
		}
		if !ok {
			continue
		}

		event := model.ReviewEvent{
			Type:       "reminder",
			ContentID:  item.ID,
			Kind:       item.Kind,
			Title:      item.Title,
			OwnerID:    item.OwnerID,
			OccurredAt: now,
		}
		data, err := json.Marshal(event)
		if err != nil {
			w.log.Error().Err(err).Msg("Marshal reminder event")
			continue
		}
		if err := w.rdb.Publish(ctx, config.CacheKey.ReviewEventsChannel(), data).Err(); err != nil {
			w.log.Error().Err(err).Str("content_id", item.ID.String()).Msg("Publish reminder event")
			continue
		}
		reminded++
	}

	if reminded > 0 {
		w.log.Info().
			Int("stale", len(stale)).
			Int("reminded", reminded).
			Msg("Review reminders published")
	}
}
