package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"gifting-workers/internal/common/logger"
	"gifting-workers/internal/models"
)

const cacheKeyPrefix = "gift:lookup:"

// CachedLookup memoises another lookup in Redis. Cache failures are logged
// and bypassed.
type CachedLookup struct {
	next   ProductLookup
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedLookup(next ProductLookup, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedLookup {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CachedLookup{next: next, redis: rdb, ttl: ttl, logger: log}
}

// CacheKey derives the Redis key for a query and limit.
func CacheKey(query string, limit int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", strings.ToLower(strings.TrimSpace(query)), limit)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:16])
}

func (c *CachedLookup) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	key := CacheKey(query, limit)

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var products []models.Product
		if jsonErr := json.Unmarshal([]byte(val), &products); jsonErr == nil {
			return products, nil
		}
	case err != redis.Nil:
		c.logger.Warn("lookup cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	products, err := c.next.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(products)
	if err == nil {
		if setErr := c.redis.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			c.logger.Warn("lookup cache write failed", map[string]interface{}{"key": key, "error": setErr.Error()})
		}
	}
	return products, nil
}
