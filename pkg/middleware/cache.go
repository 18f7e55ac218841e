package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/mini-erp/pkg/logger"
)

const cacheKeyPrefix = "cache:"

// ResponseCache caches successful GET responses in Redis and drops the
// whole namespace after any successful write. A nil client disables it.
type ResponseCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewResponseCache creates a response cache
func NewResponseCache(redisClient *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResponseCache{redis: redisClient, ttl: ttl}
}

// bodyRecorder keeps a copy of everything written to the client
type bodyRecorder struct {
	*statusRecorder
	body bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.statusRecorder.Write(b)
}

// Cached serves GET requests from Redis when possible. It must sit inside
// any auth guard so cached bodies are only returned to authorized callers.
func (c *ResponseCache) Cached(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil || c.redis == nil || r.Method != http.MethodGet {
			next(w, r)
			return
		}

		ctx := r.Context()
		key := CacheKey(r)

		cached, err := c.redis.Get(ctx, key).Bytes()
		if err == nil && len(cached) > 0 {
			logger.Debug(ctx).
				Str("path", r.URL.Path).
				Str("cache_key", key).
				Msg("Cache hit")

			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
		if err != nil && err != redis.Nil {
			logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Cache lookup failed")
		}

		w.Header().Set("X-Cache", "MISS")
		rec := &bodyRecorder{statusRecorder: newStatusRecorder(w)}
		next(rec, r)

		if rec.status != http.StatusOK {
			return
		}
		if err := c.redis.Set(ctx, key, rec.body.Bytes(), c.ttl).Err(); err != nil {
			logger.Warn(ctx).
				Err(err).
				Str("cache_key", key).
				Msg("Failed to cache response")
			return
		}

		logger.Debug(ctx).
			Str("path", r.URL.Path).
			Str("cache_key", key).
			Dur("ttl", c.ttl).
			Int("size", rec.body.Len()).
			Msg("Response cached")
	}
}

// Invalidating clears cached responses after a successful write. Confirming
// an order changes product stock, so the namespace is dropped as a whole.
func (c *ResponseCache) Invalidating(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil || c.redis == nil {
			next(w, r)
			return
		}

		rec := newStatusRecorder(w)
		next(rec, r)

		if rec.status < 200 || rec.status >= 300 {
			return
		}
		if err := InvalidateCache(r.Context(), c.redis, cacheKeyPrefix+"*"); err != nil {
			logger.Warn(r.Context()).Err(err).Msg("Failed to invalidate cache")
		}
	}
}

// CacheKey derives the cache key from method, path and query string
func CacheKey(r *http.Request) string {
	components := fmt.Sprintf("%s:%s:%s", r.Method, r.URL.Path, r.URL.RawQuery)
	hash := sha256.Sum256([]byte(components))
	return cacheKeyPrefix + hex.EncodeToString(hash[:])
}

// InvalidateCache deletes every key matching pattern
func InvalidateCache(ctx context.Context, redisClient *redis.Client, pattern string) error {
	iter := redisClient.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := redisClient.Del(ctx, keys...).Err(); err != nil {
			return err
		}

		logger.Debug(ctx).
			Int("count", len(keys)).
			Str("pattern", pattern).
			Msg("Cache invalidated")
	}

	return nil
}
