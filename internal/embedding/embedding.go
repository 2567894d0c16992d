// Package embedding provides text-embedding providers and the decorators
// (cache, circuit breaker, rate limit, instrumentation) wrapped around them.
package embedding

import (
	"errors"
	"fmt"

	"github.com/wonny/macromoney/internal/contracts"
)

// Provider is an Embedder that knows which provider and model produce its vectors
type Provider interface {
	contracts.Embedder
	Name() string
	Model() string
}

// ErrEmptyEmbedding: the provider answered without a vector
var ErrEmptyEmbedding = errors.New("provider returned no embedding")

// serviceError tags err as an embedding-service failure exactly once
func serviceError(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, contracts.ErrEmbeddingService) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", contracts.ErrEmbeddingService, provider, err)
}
