package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestRegistry_RecordAnalysis(t *testing.T) {
	r := New()

	r.RecordAnalysis("lexical", "macro", 35, "pass", 2*time.Millisecond)
	r.RecordAnalysis("lexical", "irrelevant", 0, "", time.Millisecond)

	body := scrape(t, r)
	assert.Contains(t, body, `macromoney_analyses_total{strategy="lexical",tier="macro"} 1`)
	assert.Contains(t, body, `macromoney_analyses_total{strategy="lexical",tier="irrelevant"} 1`)
	assert.Contains(t, body, `macromoney_gate_decisions_total{result="pass"} 1`)
	assert.NotContains(t, body, `macromoney_gate_decisions_total{result="fail"}`)
	assert.Contains(t, body, `macromoney_severity_count 1`)
}

func TestRegistry_RecordEmbedding(t *testing.T) {
	r := New()

	r.RecordEmbedding("openai", "ok", 100*time.Millisecond)
	r.RecordEmbedding("openai", "error", 50*time.Millisecond)
	r.RecordCache("hit")

	body := scrape(t, r)
	assert.Contains(t, body, `macromoney_embedding_requests_total{provider="openai",status="ok"} 1`)
	assert.Contains(t, body, `macromoney_embedding_requests_total{provider="openai",status="error"} 1`)
	assert.Contains(t, body, `macromoney_embedding_duration_seconds_count{provider="openai"} 2`)
	assert.Contains(t, body, `macromoney_embedding_cache_total{result="hit"} 1`)
}

func TestRegistry_NilIsNoop(t *testing.T) {
	var r *Registry

	assert.NotPanics(t, func() {
		r.RecordAnalysis("lexical", "macro", 10, "fail", time.Millisecond)
		r.RecordEmbedding("gemini", "ok", time.Millisecond)
		r.RecordCache("miss")
		r.RecordHTTP("GET", "/health", "200")
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegistry_Handler(t *testing.T) {
	r := New()
	r.RecordHTTP("POST", "/api/analyze", "200")

	body := scrape(t, r)
	assert.Contains(t, body, `macromoney_http_requests_total{method="POST",route="/api/analyze",status="200"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestRegistry_Gatherer(t *testing.T) {
	r := New()
	families, err := r.Gatherer().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	var nilReg *Registry
	families, err = nilReg.Gatherer().Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}
