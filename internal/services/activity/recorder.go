// Package activity keeps lightweight export bookkeeping in Redis: how often
// each gallery has been exported and when it last happened. Strictly
// best-effort observability; it never sits on the archive hot path and it is
// not a cache of archives (every export re-fetches from scratch).
package activity

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	totalKey  = "export:total"
	countsKey = "export:counts"
	lastKey   = "export:last"
)

type Recorder struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRecorder(addr, password string, db int, logger *zap.Logger) *Recorder {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &Recorder{client: client, logger: logger}
}

// RecordExport notes one completed export. Failures are logged and swallowed;
// losing a counter tick must never fail a delivered archive.
func (r *Recorder) RecordExport(ctx context.Context, galleryID string, exported, archiveBytes int) {
	pipe := r.client.Pipeline()
	pipe.Incr(ctx, totalKey)
	pipe.HIncrBy(ctx, countsKey, galleryID, 1)
	pipe.HSet(ctx, lastKey, galleryID, time.Now().UTC().Format(time.RFC3339))
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("Failed to record export activity",
			zap.String("gallery_id", galleryID),
			zap.Error(err),
		)
	}
}

// Snapshot returns the recorded activity for the stats endpoint.
func (r *Recorder) Snapshot(ctx context.Context) (map[string]interface{}, error) {
	total, err := r.client.Get(ctx, totalKey).Int64()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	counts, err := r.client.HGetAll(ctx, countsKey).Result()
	if err != nil {
		return nil, err
	}

	last, err := r.client.HGetAll(ctx, lastKey).Result()
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_exports": total,
		"per_gallery":   counts,
		"last_export":   last,
	}, nil
}

// Health reports Redis reachability for the health endpoint.
func (r *Recorder) Health(ctx context.Context) string {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}

func (r *Recorder) Close() error {
	return r.client.Close()
}
