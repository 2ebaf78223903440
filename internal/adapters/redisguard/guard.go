// Package redisguard deduplicates webhook deliveries across processes by
// claiming each event id in Redis with SETNX.
package redisguard

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "suma-ledger:webhook:"

// Guard remembers delivered event ids for a TTL.
type Guard struct {
	client redis.Cmdable
	ttl    time.Duration
}

// New returns a Guard on client. Keys expire after ttl.
func New(client redis.Cmdable, ttl time.Duration) *Guard {
	return &Guard{client: client, ttl: ttl}
}

// NewClient connects to Redis and pings it. It returns nil when addr is empty
// or the server is unreachable, in which case replays are not deduplicated.
func NewClient(ctx context.Context, addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection failed, continuing without replay guard: %v", err)
		_ = rdb.Close()
		return nil
	}
	log.Println("Redis connection established")
	return rdb
}

func key(eventID string) string {
	return keyPrefix + eventID
}

// Claim reports whether this is the first delivery of eventID.
func (g *Guard) Claim(ctx context.Context, eventID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, key(eventID), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim webhook event %s: %w", eventID, err)
	}
	return ok, nil
}

// Release forgets eventID so a redelivery is processed again. Used when
// handling the first delivery failed.
func (g *Guard) Release(ctx context.Context, eventID string) error {
	if err := g.client.Del(ctx, key(eventID)).Err(); err != nil {
		return fmt.Errorf("release webhook event %s: %w", eventID, err)
	}
	return nil
}
