package embedding

import (
	"context"
	"time"

	"github.com/wonny/macromoney/pkg/logger"
	"github.com/wonny/macromoney/pkg/metrics"
	"github.com/wonny/macromoney/pkg/redis"
)

// VectorStore is the subset of *redis.Cache used by Cached
type VectorStore interface {
	Enabled() bool
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Cached keeps vectors in Redis across restarts. Cache failures fall through to the provider.
type Cached struct {
	Provider
	store   VectorStore
	ttl     time.Duration
	dims    int
	metrics *metrics.Registry
	logger  *logger.Logger
}

// NewCached wraps next. dims is part of the cache key.
func NewCached(next Provider, store VectorStore, ttl time.Duration, dims int, reg *metrics.Registry, log *logger.Logger) *Cached {
	if log == nil {
		log = logger.NewNop()
	}
	if ttl <= 0 {
		ttl = redis.TTLEmbedding
	}
	return &Cached{
		Provider: next,
		store:    store,
		ttl:      ttl,
		dims:     dims,
		metrics:  reg,
		logger:   log.WithComponent("embedding.cache"),
	}
}

// Embed implements contracts.Embedder
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.store == nil || !c.store.Enabled() {
		return c.Provider.Embed(ctx, text)
	}

	key := redis.EmbeddingKey(c.Name(), c.Model(), c.dims, text)

	var vec []float32
	found, err := c.store.Get(ctx, key, &vec)
	switch {
	case err != nil:
		c.metrics.RecordCache("error")
		c.logger.WithError(err).Warn("Embedding cache read failed")
	case found && c.usable(vec):
		c.metrics.RecordCache("hit")
		return vec, nil
	case found:
		// 손상된 항목 (빈 벡터 또는 차원 불일치) 제거 후 재계산
		c.metrics.RecordCache("invalid")
		if err := c.store.Delete(ctx, key); err != nil {
			c.logger.WithError(err).Warn("Embedding cache delete failed")
		}
	default:
		c.metrics.RecordCache("miss")
	}

	vec, err = c.Provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, vec, c.ttl); err != nil {
		c.logger.WithError(err).Warn("Embedding cache write failed")
	}
	return vec, nil
}

// usable rejects empty vectors and, when dims is pinned, vectors of another size
func (c *Cached) usable(vec []float32) bool {
	if len(vec) == 0 {
		return false
	}
	return c.dims <= 0 || len(vec) == c.dims
}
