package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/macromoney/pkg/config"
	"github.com/wonny/macromoney/pkg/httputil"
	"github.com/wonny/macromoney/pkg/logger"
	"github.com/wonny/macromoney/pkg/metrics"
	"github.com/wonny/macromoney/pkg/redis"
)

// ErrNoProvider: EMBEDDING_PROVIDER=none
var ErrNoProvider = errors.New("no embedding provider configured")

// Deps carries shared infrastructure
type Deps struct {
	Logger  *logger.Logger
	Metrics *metrics.Registry
	Redis   *redis.Client // nil or disabled = no cache, no distributed limit
}

// New builds the provider chain for cfg.Embedding:
//
//	Cached → RateLimited → Breaker → Instrumented(timeout) → provider → httputil (retry)
//
// The breaker sits outside the per-call timeout so that provider timeouts count
// as failures while the caller's own cancellation does not.
func New(ctx context.Context, cfg *config.Config, deps Deps) (Provider, error) {
	ec := cfg.Embedding
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}

	hc := httputil.NewWithTimeout(cfg, log, ec.Timeout).WithRetry(ec.MaxRetries, 500*time.Millisecond)
	if deps.Redis.Enabled() {
		hc = hc.WithRateLimiter(redis.NewRateLimiter(deps.Redis, "macromoney"), redis.EmbeddingRateLimit(ec.Provider, ec.RequestsPerMinute))
	}

	var base Provider
	switch ec.Provider {
	case config.ProviderOpenAI:
		base = NewOpenAI(ec, hc.StdClient())
	case config.ProviderGemini:
		g, err := NewGemini(ctx, ec, hc.StdClient())
		if err != nil {
			return nil, err
		}
		base = g
	case config.ProviderNone, "":
		return nil, ErrNoProvider
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", ec.Provider)
	}

	var p Provider = NewInstrumented(base, ec.Timeout, deps.Metrics, log)
	p = NewBreaker(p, DefaultBreakerSettings(), log)
	p = NewRateLimited(p, ec.RequestsPerMinute)

	if deps.Redis.Enabled() {
		p = NewCached(p, redis.NewCache(deps.Redis, "macromoney"), cfg.Redis.EmbeddingTTL, ec.Dimensions, deps.Metrics, log)
	}

	log.WithFields(map[string]interface{}{
		"provider":   p.Name(),
		"model":      p.Model(),
		"timeout":    ec.Timeout.String(),
		"rpm":        ec.RequestsPerMinute,
		"retries":    ec.MaxRetries,
		"redis":      deps.Redis.Enabled(),
		"dimensions": ec.Dimensions,
	}).Info("Embedding provider initialized")

	return p, nil
}
