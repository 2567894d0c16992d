package contracts

import "context"

// Embedder turns text into a vector. Headline and theme descriptions must go through
// the same model so their dimensionality matches.
// ⭐ SSOT: 외부 임베딩 호출 인터페이스 (실패 시 ErrEmbeddingService로 감싸서 반환)
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbedderFunc adapts a function to Embedder
type EmbedderFunc func(ctx context.Context, text string) ([]float32, error)

// Embed implements Embedder
func (f EmbedderFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}
