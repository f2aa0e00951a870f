package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trackcatalog/config"
	"trackcatalog/db"
	"trackcatalog/logger"
	"trackcatalog/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	// ListingKey holds the JSON-encoded public track group listing.
	ListingKey = "catalog:track_groups:published"
	// GenerationKey counts invalidations. A listing computed under an
	// older generation is never stored.
	GenerationKey = "catalog:track_groups:generation"
)

// ErrMiss is returned by Get when nothing is cached.
var ErrMiss = errors.New("cache miss")

// Generation is the value of GenerationKey observed by Get.
type Generation string

// invalidatingTables are the tables whose writes can change the listing.
var invalidatingTables = map[string]bool{
	"track_groups": true,
	"tracks":       true,
	"artists":      true,
}

// setIfGeneration stores ARGV[2] under KEYS[1] only while KEYS[2] still
// equals ARGV[1]. ARGV[3] is the TTL in milliseconds, 0 for none.
var setIfGeneration = redis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// TrackGroupCache caches the public listing in Redis.
type TrackGroupCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTrackGroupCache returns a cache storing entries for ttl.
func NewTrackGroupCache(client *redis.Client, ttl time.Duration) *TrackGroupCache {
	return &TrackGroupCache{client: client, ttl: ttl}
}

// Attach connects to Redis and registers listing invalidation on gdb.
// It returns a nil cache and a no-op cleanup when Redis is not configured.
// Every process that writes catalog tables must call it.
func Attach(ctx context.Context, cfg *config.Config, gdb *gorm.DB) (*TrackGroupCache, func(), error) {
	if !cfg.CacheEnabled() {
		return nil, func() {}, nil
	}
	client, err := ConnectRedis(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	c := NewTrackGroupCache(client, cfg.ListingCacheTTL)
	if err := c.RegisterInvalidation(gdb); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return c, func() { _ = client.Close() }, nil
}

// Get returns the cached listing or ErrMiss, along with the generation to
// pass to Set.
func (c *TrackGroupCache) Get(ctx context.Context) ([]model.TrackGroupSummary, Generation, error) {
	vals, err := c.client.MGet(ctx, ListingKey, GenerationKey).Result()
	if err != nil {
		return nil, "", fmt.Errorf("failed to read cached listing: %w", err)
	}

	gen := Generation("0")
	if s, ok := vals[1].(string); ok {
		gen = Generation(s)
	}
	data, ok := vals[0].(string)
	if !ok {
		return nil, gen, ErrMiss
	}

	var summaries []model.TrackGroupSummary
	if err := json.Unmarshal([]byte(data), &summaries); err != nil {
		return nil, gen, fmt.Errorf("failed to decode cached listing: %w", err)
	}
	if summaries == nil {
		summaries = []model.TrackGroupSummary{}
	}
	return summaries, gen, nil
}

// Set stores the listing unless an invalidation happened after the Get
// that returned gen.
func (c *TrackGroupCache) Set(ctx context.Context, gen Generation, summaries []model.TrackGroupSummary) error {
	data, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}
	stored, err := setIfGeneration.Run(ctx, c.client,
		[]string{ListingKey, GenerationKey},
		string(gen), data, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("failed to cache listing: %w", err)
	}
	if stored == 0 {
		logger.Debug("Skipped caching outdated listing", logger.String("generation", string(gen)))
	}
	return nil
}

// Invalidate drops the cached listing and bumps the generation.
func (c *TrackGroupCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, ListingKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate listing: %w", err)
	}
	return nil
}

// RegisterInvalidation hooks into gdb so every write to a listing table,
// and every raw Exec, drops the cached listing once the write is visible
// to other connections: after commit inside a transaction, right away
// otherwise. Rolled back writes invalidate nothing.
func (c *TrackGroupCache) RegisterInvalidation(gdb *gorm.DB) error {
	const name = "catalog:invalidate_listing"

	onWrite := func(tx *gorm.DB) {
		if tx.Error != nil || !invalidatingTables[tx.Statement.Table] {
			return
		}
		c.invalidateAfterCommit(tx)
	}
	onRaw := func(tx *gorm.DB) {
		if tx.Error == nil {
			c.invalidateAfterCommit(tx)
		}
	}

	cb := gdb.Callback()
	if err := cb.Create().After("gorm:create").Register(name, onWrite); err != nil {
		return fmt.Errorf("failed to register create callback: %w", err)
	}
	if err := cb.Update().After("gorm:update").Register(name, onWrite); err != nil {
		return fmt.Errorf("failed to register update callback: %w", err)
	}
	if err := cb.Delete().After("gorm:delete").Register(name, onWrite); err != nil {
		return fmt.Errorf("failed to register delete callback: %w", err)
	}
	if err := cb.Raw().After("gorm:raw").Register(name, onRaw); err != nil {
		return fmt.Errorf("failed to register raw callback: %w", err)
	}
	return nil
}

func (c *TrackGroupCache) invalidateAfterCommit(tx *gorm.DB) {
	ctx := context.Background()
	if tx.Statement.Context != nil {
		// The request may be gone by the time the transaction commits.
		ctx = context.WithoutCancel(tx.Statement.Context)
	}
	table := tx.Statement.Table
	db.AfterCommit(tx, ListingKey, func() {
		if err := c.Invalidate(ctx); err != nil {
			logger.Warn("Failed to invalidate track group listing",
				logger.String("table", table),
				logger.ErrorField(err),
			)
		}
	})
}
