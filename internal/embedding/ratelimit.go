package embedding

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited spaces provider calls to a requests-per-minute budget in-process
type RateLimited struct {
	Provider
	limiter *rate.Limiter
}

// NewRateLimited wraps next. rpm <= 0 disables limiting.
// Burst lets the theme-description batch at startup go out together.
func NewRateLimited(next Provider, rpm int) *RateLimited {
	if rpm <= 0 {
		return &RateLimited{Provider: next, limiter: rate.NewLimiter(rate.Inf, 0)}
	}

	burst := 10
	if rpm < burst {
		burst = rpm
	}
	return &RateLimited{
		Provider: next,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), burst),
	}
}

// Embed implements contracts.Embedder
func (r *RateLimited) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, serviceError(r.Name(), fmt.Errorf("rate limit wait: %w", err))
	}
	return r.Provider.Embed(ctx, text)
}
