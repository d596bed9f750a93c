package registration

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/inventory-vision/internal/logging"
)

// ErrCacheMiss is returned by CacheStore.Get when no entry exists for a key.
var ErrCacheMiss = errors.New("cache miss")

// CacheStore is the byte-level key/value surface the replay cache needs.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCacheStore backs the replay cache with Redis.
type RedisCacheStore struct {
	rdb *redis.Client
}

func NewRedisCacheStore(rdb *redis.Client) *RedisCacheStore {
	return &RedisCacheStore{rdb: rdb}
}

func (s *RedisCacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return raw, err
}

func (s *RedisCacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// ResultCache replays success envelopes for retried requests. Keys are the
// deterministic blob keys, so "same photo, same barcode" is the identity of a
// registration. The store being down only disables replay; it never fails a
// registration.
type ResultCache struct {
	store CacheStore
	ttl   time.Duration
	log   *logging.Logger
}

func NewResultCache(store CacheStore, ttl time.Duration, log *logging.Logger) *ResultCache {
	return &ResultCache{store: store, ttl: ttl, log: log}
}

func (c *ResultCache) Get(ctx context.Context, key string) (Result, bool) {
	raw, err := c.store.Get(ctx, cacheKey(key))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.log.Warn("idempotency cache read failed", "key", key, "error", err)
		}
		return Result{}, false
	}
	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		c.log.Warn("idempotency cache entry corrupt", "key", key, "error", err)
		return Result{}, false
	}
	return r, true
}

func (c *ResultCache) Put(ctx context.Context, key string, r Result) {
	raw, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, cacheKey(key), raw, c.ttl); err != nil {
		c.log.Warn("idempotency cache write failed", "key", key, "error", err)
	}
}

func cacheKey(blobKey string) string { return "registration:" + blobKey }
