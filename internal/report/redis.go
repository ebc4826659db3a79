package report

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// HashStore is satisfied by *redis.Client.
type HashStore interface {
	HSetWithTTL(ctx context.Context, key string, fields map[string]any, ttl time.Duration) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// RedisSink keeps the latest result per document in a hash
// (<prefix>doc:<path>) and the current index summary line in <prefix>summary.
type RedisSink struct {
	store  HashStore
	prefix string
	ttl    time.Duration
}

func NewRedisSink(store HashStore, prefix string, ttl time.Duration) *RedisSink {
	return &RedisSink{store: store, prefix: prefix, ttl: ttl}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) DocumentKey(path string) string {
	return s.prefix + "doc:" + path
}

func (s *RedisSink) SummaryKey() string {
	return s.prefix + "summary"
}

func (s *RedisSink) Report(ctx context.Context, r Result) error {
	fields := map[string]any{
		"status":       r.Status,
		"thread_count": r.ThreadCount,
		"terms":        r.Terms,
		"duration_ms":  strconv.FormatFloat(r.DurationMs, 'f', 3, 64),
		"indexed_at":   r.IndexedAt.Format(time.RFC3339Nano),
		"error":        r.Error,
	}
	if err := s.store.HSetWithTTL(ctx, s.DocumentKey(r.Document), fields, s.ttl); err != nil {
		return fmt.Errorf("storing result for %s: %w", r.Document, err)
	}
	summary := fmt.Sprintf("%d inverted indexes in memory", r.Terms)
	if err := s.store.Set(ctx, s.SummaryKey(), summary, 0); err != nil {
		return fmt.Errorf("storing index summary: %w", err)
	}
	return nil
}
