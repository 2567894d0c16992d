package embedding

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/wonny/macromoney/pkg/config"
)

// Gemini embeds text through the Gemini API
type Gemini struct {
	client *genai.Client
	model  string
	dims   int
}

// NewGemini creates the provider. httpClient carries retry and timeout policy.
func NewGemini(ctx context.Context, cfg config.EmbeddingConfig, httpClient *http.Client) (*Gemini, error) {
	gc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		gc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, gc)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-embedding-001"
	}

	return &Gemini{client: client, model: model, dims: cfg.Dimensions}, nil
}

// Name implements Provider
func (g *Gemini) Name() string { return config.ProviderGemini }

// Model implements Provider
func (g *Gemini) Model() string { return g.model }

// Embed implements contracts.Embedder
func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	ecfg := &genai.EmbedContentConfig{TaskType: "SEMANTIC_SIMILARITY"}
	if g.dims > 0 {
		outputDim := int32(g.dims)
		ecfg.OutputDimensionality = &outputDim
	}

	result, err := g.client.Models.EmbedContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, ecfg)
	if err != nil {
		return nil, serviceError(g.Name(), err)
	}

	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil || len(result.Embeddings[0].Values) == 0 {
		return nil, serviceError(g.Name(), ErrEmptyEmbedding)
	}
	return result.Embeddings[0].Values, nil
}
