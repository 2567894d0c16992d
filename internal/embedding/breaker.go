package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wonny/macromoney/pkg/logger"
)

// BreakerSettings controls when the circuit opens
type BreakerSettings struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration // open → half-open
	Interval            time.Duration // closed-state count reset
}

// DefaultBreakerSettings opens after 5 straight failures and probes again after 30s
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		Interval:            time.Minute,
	}
}

// Breaker short-circuits calls to a failing provider
type Breaker struct {
	Provider
	cb *gobreaker.CircuitBreaker
}

// NewBreaker wraps next with a circuit breaker
func NewBreaker(next Provider, s BreakerSettings, log *logger.Logger) *Breaker {
	if log == nil {
		log = logger.NewNop()
	}
	threshold := s.ConsecutiveFailures
	if threshold == 0 {
		threshold = 1
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "embedding:" + next.Name(),
		MaxRequests: 1,
		Interval:    s.Interval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// 호출자 취소/마감은 제공자 장애로 세지 않음
		IsSuccessful: func(err error) bool {
			var abort callerAbort
			return err == nil || errors.As(err, &abort)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Embedding circuit breaker state changed")
		},
	})

	return &Breaker{Provider: next, cb: cb}
}

// State returns the breaker state (closed, half-open, open)
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// callerAbort marks a failure caused by the caller's context, not the provider
type callerAbort struct{ err error }

func (a callerAbort) Error() string { return a.err.Error() }
func (a callerAbort) Unwrap() error { return a.err }

// Embed implements contracts.Embedder
func (b *Breaker) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: caller gave up: %w", b.Name(), err)
	}

	v, err := b.cb.Execute(func() (interface{}, error) {
		vec, err := b.Provider.Embed(ctx, text)
		if err != nil && ctx.Err() != nil {
			return nil, callerAbort{err: err}
		}
		return vec, err
	})
	if err != nil {
		var abort callerAbort
		if errors.As(err, &abort) {
			return nil, abort.err
		}
		// ErrOpenState / ErrTooManyRequests도 서비스 장애로 분류
		return nil, serviceError(b.Name(), err)
	}
	return v.([]float32), nil
}
