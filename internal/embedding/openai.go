package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/wonny/macromoney/pkg/config"
)

// OpenAI embeds text through the OpenAI embeddings endpoint
type OpenAI struct {
	client *openai.Client
	model  string
	dims   int
}

// NewOpenAI creates the provider. httpClient carries retry and timeout policy.
func NewOpenAI(cfg config.EmbeddingConfig, httpClient *http.Client) *OpenAI {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		oc.HTTPClient = httpClient
	}

	model := cfg.Model
	if model == "" {
		model = string(openai.LargeEmbedding3)
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(oc),
		model:  model,
		dims:   cfg.Dimensions,
	}
}

// Name implements Provider
func (o *OpenAI) Name() string { return config.ProviderOpenAI }

// Model implements Provider
func (o *OpenAI) Model() string { return o.model }

// Embed implements contracts.Embedder
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(o.model),
		Dimensions: o.dims,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, serviceError(o.Name(), fmt.Errorf("status %d: %w", apiErr.HTTPStatusCode, err))
		}
		return nil, serviceError(o.Name(), err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, serviceError(o.Name(), ErrEmptyEmbedding)
	}
	return resp.Data[0].Embedding, nil
}
