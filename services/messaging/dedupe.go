package messaging

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Deduper remembers message ids the gateway already delivered.
type Deduper interface {
	// FirstSeen records id and reports whether it had not been seen before.
	FirstSeen(ctx context.Context, messageID string) (bool, error)
	// Forget drops id so a redelivery is processed again.
	Forget(ctx context.Context, messageID string) error
}

const dedupeKeyPrefix = "inbound:msg:"

// RedisDeduper keeps seen ids in Redis with SETNX and a TTL.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisDeduper{client: client, ttl: ttl}
}

func (r *RedisDeduper) FirstSeen(ctx context.Context, messageID string) (bool, error) {
	return r.client.SetNX(ctx, dedupeKeyPrefix+messageID, 1, r.ttl).Result()
}

func (r *RedisDeduper) Forget(ctx context.Context, messageID string) error {
	return r.client.Del(ctx, dedupeKeyPrefix+messageID).Err()
}
