package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/wonny/macromoney/pkg/logger"
	"github.com/wonny/macromoney/pkg/metrics"
	"github.com/wonny/macromoney/pkg/tracing"
)

// Instrumented enforces a per-call timeout and records metrics, spans and logs
type Instrumented struct {
	Provider
	timeout time.Duration
	metrics *metrics.Registry
	logger  *logger.Logger
}

// NewInstrumented wraps next. timeout <= 0 means the caller's context alone bounds the call.
func NewInstrumented(next Provider, timeout time.Duration, reg *metrics.Registry, log *logger.Logger) *Instrumented {
	if log == nil {
		log = logger.NewNop()
	}
	return &Instrumented{
		Provider: next,
		timeout:  timeout,
		metrics:  reg,
		logger:   log.WithComponent("embedding"),
	}
}

// Embed implements contracts.Embedder
func (i *Instrumented) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, span := tracing.StartSpan(ctx, "embedding.embed",
		attribute.String("provider", i.Name()),
		attribute.String("model", i.Model()),
		attribute.Int("text_length", len(text)),
	)
	defer span.End()

	callCtx := ctx
	if i.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	start := time.Now()
	vec, err := i.Provider.Embed(callCtx, text)
	duration := time.Since(start)

	status := "ok"
	switch {
	case err == nil:
	case ctx.Err() != nil:
		// 호출자가 먼저 포기함: 제공자 장애가 아님
		status = "canceled"
		err = fmt.Errorf("%s: caller gave up: %w", i.Name(), ctx.Err())
	case errors.Is(err, context.DeadlineExceeded):
		status = "timeout"
		err = serviceError(i.Name(), fmt.Errorf("timed out after %s: %w", i.timeout, err))
	default:
		status = "error"
		err = serviceError(i.Name(), err)
	}
	i.metrics.RecordEmbedding(i.Name(), status, duration)

	if err != nil {
		tracing.RecordError(span, err)
		i.logger.WithError(err).WithFields(map[string]interface{}{
			"provider": i.Name(),
			"model":    i.Model(),
			"status":   status,
			"duration": duration.String(),
		}).Warn("Embedding call failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("dimensions", len(vec)))
	return vec, nil
}
