package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"bookingbot/config"
)

// DedupeClient backs inbound message deduplication.
var DedupeClient *redis.Client

// InitDedupeCache connects the Redis client used for message dedupe.
func InitDedupeCache() {
	DedupeClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDedupeDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := DedupeClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis (Dedupe): %v", err)
	}
}

// GetDedupeClient returns the dedupe client, connecting on first use.
func GetDedupeClient() *redis.Client {
	if DedupeClient == nil {
		InitDedupeCache()
	}
	return DedupeClient
}
