// Package cache keeps listing results in Redis.
//
// Every collection has a version counter. Cached pages are stored under
// a key containing the current version, so bumping the counter after a
// mutation makes every older page unreachable without scanning keys.
// Stale pages simply expire through their TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/eventhub/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "eventhub:list"

// ListCache caches List results per collection and limit.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewListCache(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *ListCache {
	return &ListCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func versionKey(collection string) string {
	return fmt.Sprintf("%s:%s:version", keyPrefix, collection)
}

func pageKey(collection string, version, limit int64) string {
	return fmt.Sprintf("%s:%s:v%d:limit:%d", keyPrefix, collection, version, limit)
}

func (c *ListCache) version(ctx context.Context, collection string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(collection)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Get returns the cached page, or ok=false on a miss. The returned
// version must be passed to Set when the caller fills the miss, so a page
// read before an Invalidate can never land under the newer version.
func (c *ListCache) Get(ctx context.Context, collection string, limit int64) ([]model.Record, int64, bool, error) {
	version, err := c.version(ctx, collection)
	if err != nil {
		return nil, 0, false, fmt.Errorf("reading cache version: %w", err)
	}

	data, err := c.client.Get(ctx, pageKey(collection, version, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, fmt.Errorf("reading cached page: %w", err)
	}

	var records []model.Record
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, version, false, fmt.Errorf("decoding cached page: %w", err)
	}

	return records, version, true, nil
}

// Set stores a page under the version Get reported. If the collection was
// invalidated in between, the page is written under a dead key and only
// lives until its TTL.
func (c *ListCache) Set(ctx context.Context, collection string, version, limit int64, records []model.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding page: %w", err)
	}

	return c.client.Set(ctx, pageKey(collection, version, limit), data, c.ttl).Err()
}

// Invalidate drops every cached page of a collection.
func (c *ListCache) Invalidate(ctx context.Context, collection string) error {
	version, err := c.client.Incr(ctx, versionKey(collection)).Result()
	if err != nil {
		return fmt.Errorf("bumping cache version: %w", err)
	}

	c.logger.Debug().
		Str("collection", collection).
		Int64("version", version).
		Msg("list cache invalidated")

	return nil
}
