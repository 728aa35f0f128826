package vectorstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/cadforge/cadforge/metrics"
)

const cacheKeyPrefix = "cadforge:emb:"

// CachedEmbedder fronts an Embedder with a Redis cache keyed by the SHA-256
// of the input text. Cache failures fall through to the underlying embedder.
type CachedEmbedder struct {
	inner  Embedder
	client *redis.Client
	ttl    time.Duration
}

// NewCachedEmbedder wraps inner with a Redis cache. A zero ttl means entries
// never expire.
func NewCachedEmbedder(inner Embedder, client *redis.Client, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, client: client, ttl: ttl}
}

// CacheKey returns the Redis key used for the given text.
func CacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// Embed returns a cached vector when available, otherwise embeds and stores.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := CacheKey(text)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var vector []float32
		if jsonErr := json.Unmarshal([]byte(cached), &vector); jsonErr == nil {
			metrics.EmbeddingCacheHits.Inc()
			return vector, nil
		}
		// Unreadable entry, drop it and re-embed.
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("embedding cache get: %v", err)
	}

	vector, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(vector); err == nil {
		if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			log.Printf("embedding cache set: %v", err)
		}
	}
	return vector, nil
}
