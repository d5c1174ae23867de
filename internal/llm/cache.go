package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "playground:gen:"

// CacheStore is the subset of the Redis client used to cache generations
type CacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// cachedGenerator memoizes generations so re-rendering identical values yields identical text
type cachedGenerator struct {
	inner  Generator
	store  CacheStore
	model  string
	ttl    time.Duration
	logger *zap.Logger
}

// WithCache wraps a Generator with a Redis-backed cache. A zero ttl keeps entries forever.
// Cache failures are logged and never fail a generation.
func WithCache(g Generator, store CacheStore, model string, ttl time.Duration, logger *zap.Logger) Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedGenerator{inner: g, store: store, model: model, ttl: ttl, logger: logger}
}

func (c *cachedGenerator) Generate(ctx context.Context, input, prompt string) (string, error) {
	key := CacheKey(c.model, input, prompt)

	cached, err := c.store.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("failed to read generation cache", zap.String("key", key), zap.Error(err))
	}

	out, err := c.inner.Generate(ctx, input, prompt)
	if err != nil {
		return "", err
	}

	if err := c.store.Set(ctx, key, out, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to write generation cache", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}

// CacheKey derives the cache key of a generation
func CacheKey(model, input, prompt string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	h.Write([]byte{0})
	h.Write([]byte(input))
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
