// Package extcache caches extracted PDF text in a key-value store so
// unchanged files are not re-parsed on every re-index. The cache key binds
// the file's relative path to its mtime and size, so an edited PDF misses
// the cache and is parsed again; entries for removed files expire via TTL.
package extcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"recipesearch/internal/db"
	"recipesearch/internal/extract"
)

const cacheKeyPrefix = "recipesearch:ext_cache:"

// store is the consumer interface for the extraction cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache is a read-through extraction cache backed by a KV store.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates an extraction cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// entry is the stored payload.
type entry struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Get returns the cached content for an unchanged file. Any store or decode
// failure counts as a miss; caching never fails a scan.
func (c *Cache) Get(ctx context.Context, rel string, mtime time.Time, size int64) (extract.Content, bool) {
	key := c.cacheKey(rel, mtime, size)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("failed to read extraction cache", zap.String("key", key), zap.Error(err))
		}
		c.incCache("miss")
		return extract.Content{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("failed to decode extraction cache entry", zap.String("key", key), zap.Error(err))
		c.incCache("miss")
		return extract.Content{}, false
	}

	c.incCache("hit")
	return extract.Content{Title: e.Title, Text: e.Text}, true
}

// Put stores freshly extracted content. Failures are logged and ignored.
func (c *Cache) Put(ctx context.Context, rel string, mtime time.Time, size int64, content extract.Content) {
	data, err := json.Marshal(entry{Title: content.Title, Text: content.Text})
	if err != nil {
		c.logger.Warn("failed to encode extraction cache entry", zap.String("rel", rel), zap.Error(err))
		return
	}
	key := c.cacheKey(rel, mtime, size)
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("failed to write extraction cache", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cache) cacheKey(rel string, mtime time.Time, size int64) string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%d", rel, mtime.UnixNano(), size))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}
