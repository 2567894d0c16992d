package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestStartSpan_Disabled(t *testing.T) {
	require.NoError(t, Init(Options{Enabled: false}))

	ctx, span := StartSpan(context.Background(), "noop")
	defer span.End()

	assert.False(t, Enabled())
	assert.False(t, span.SpanContext().IsValid())

	_, _, ok := TraceFields(ctx)
	assert.False(t, ok)
}

func TestStartSpan_Enabled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Version: "test", Writer: &buf}))

	ctx, span := StartSpan(context.Background(), "analysis.analyze", attribute.String("strategy", "lexical"))
	traceID, spanID, ok := TraceFields(ctx)
	RecordError(span, errors.New("boom"))
	span.End()

	require.True(t, ok)
	assert.Len(t, traceID, 32)
	assert.Len(t, spanID, 16)

	require.NoError(t, Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "analysis.analyze")
	assert.False(t, Enabled())
}
