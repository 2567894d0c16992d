package embedding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/macromoney/internal/contracts"
	"github.com/wonny/macromoney/pkg/config"
	"github.com/wonny/macromoney/pkg/metrics"
)

func testConfig(provider, baseURL string) *config.Config {
	return &config.Config{
		Env:      "development",
		Strategy: config.StrategySimilarity,
		Embedding: config.EmbeddingConfig{
			Provider:          provider,
			APIKey:            "test-key",
			Model:             "text-embedding-3-small",
			BaseURL:           baseURL,
			Timeout:           2 * time.Second,
			RequestsPerMinute: 600,
			MaxRetries:        0,
		},
	}
}

func TestNew_NoProvider(t *testing.T) {
	_, err := New(context.Background(), testConfig(config.ProviderNone, ""), Deps{})
	assert.True(t, errors.Is(err, ErrNoProvider))
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), testConfig("cohere", ""), Deps{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cohere")
}

func TestNew_OpenAIChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[1,0]}],"model":"m"}`))
	}))
	defer srv.Close()

	reg := metrics.New()
	p, err := New(context.Background(), testConfig(config.ProviderOpenAI, srv.URL+"/v1"), Deps{Metrics: reg})
	require.NoError(t, err)

	assert.Equal(t, config.ProviderOpenAI, p.Name())
	assert.Equal(t, "text-embedding-3-small", p.Model())

	vec, err := p.Embed(context.Background(), "Oil prices surge")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, vec)
	assert.Contains(t, scrape(t, reg), "macromoney_embedding_duration_seconds")
}

func TestNew_OpenAIChainFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad input","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	p, err := New(context.Background(), testConfig(config.ProviderOpenAI, srv.URL+"/v1"), Deps{})
	require.NoError(t, err)

	_, err = p.Embed(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrEmbeddingService))
}
