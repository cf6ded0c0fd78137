// Package cache holds the last-known-position store. A rover's most
// recent telemetry record survives server restarts here, so consoles
// coming up later still see every rover at its last reported position.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rtk-console-service/internal/domain"
)

const positionKeyPrefix = "rover:last_position:"

// Redis-backed implementation of the PositionCache port. Records are
// stored as JSON under one key per MAC with a sliding TTL; a rover
// silent for longer than the TTL simply has no cached position.
type RedisPositionCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisPositionCache(client *redis.Client, ttl time.Duration) *RedisPositionCache {
	return &RedisPositionCache{Client: client, TTL: ttl}
}

// Store the latest telemetry record for its MAC.
func (c *RedisPositionCache) PutLastPosition(ctx context.Context, rec *domain.TelemetryRecord) error {
	if c.Client == nil {
		return errors.New("position cache: client is nil")
	}
	if rec == nil || rec.MAC == "" {
		return errors.New("put last position: record must have a mac")
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("put last position mac=%q: marshal: %w", rec.MAC, err)
	}

	if err := c.Client.Set(ctx, positionKeyPrefix+rec.MAC, b, c.TTL).Err(); err != nil {
		return fmt.Errorf("put last position mac=%q: %w", rec.MAC, err)
	}

	return nil
}

// Retrieve the latest record for a MAC, or nil when none is known.
func (c *RedisPositionCache) GetLastPosition(ctx context.Context, mac string) (*domain.TelemetryRecord, error) {
	if c.Client == nil {
		return nil, errors.New("position cache: client is nil")
	}
	if mac == "" {
		return nil, errors.New("get last position: mac must not be empty")
	}

	b, err := c.Client.Get(ctx, positionKeyPrefix+mac).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get last position mac=%q: %w", mac, err)
	}

	var rec domain.TelemetryRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("get last position mac=%q: unmarshal: %w", mac, err)
	}

	return &rec, nil
}
