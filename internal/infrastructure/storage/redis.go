package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"TechBriefing/internal/domain"
	"TechBriefing/internal/ports"
)

// RedisStore keeps seen links as fields of one hash; the value is the
// RFC 3339 time the link was first recorded.
type RedisStore struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

var _ ports.SeenStore = (*RedisStore)(nil)

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key, now: time.Now}
}

// OpenRedis connects to addr and verifies the server answers.
func OpenRedis(ctx context.Context, addr, key string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedisStore(client, key), nil
}

// Has reports whether the link is a field of the seen hash.
func (r *RedisStore) Has(ctx context.Context, link string) (bool, error) {
	exists, err := r.client.HExists(ctx, r.key, link).Result()
	if err != nil {
		return false, fmt.Errorf("redis hexists %s: %w", link, err)
	}
	return exists, nil
}

// Add records the link; the first recorded time is kept.
func (r *RedisStore) Add(ctx context.Context, link string) error {
	stamp := r.now().UTC().Format(time.RFC3339)
	if err := r.client.HSetNX(ctx, r.key, link, stamp).Err(); err != nil {
		return fmt.Errorf("redis hsetnx %s: %w", link, err)
	}
	return nil
}

// List returns recorded links, newest first.
func (r *RedisStore) List(ctx context.Context, limit int) ([]domain.SeenRecord, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}

	records := make([]domain.SeenRecord, 0, len(fields))
	for link, stamp := range fields {
		seenAt, _ := time.Parse(time.RFC3339, stamp)
		records = append(records, domain.SeenRecord{Link: link, SeenAt: seenAt})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].SeenAt.Equal(records[j].SeenAt) {
			return records[i].Link < records[j].Link
		}
		return records[i].SeenAt.After(records[j].SeenAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
