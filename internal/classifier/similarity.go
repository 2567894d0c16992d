package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wonny/macromoney/internal/contracts"
	"github.com/wonny/macromoney/internal/macroconfig"
	"github.com/wonny/macromoney/pkg/logger"
)

type themeVector struct {
	id     contracts.ThemeID
	vector []float32
}

// Similarity classifies by cosine similarity between the headline embedding and
// each theme description embedding. It always yields a macro theme.
type Similarity struct {
	embedder contracts.Embedder
	themes   []macroconfig.Theme
	ratio    float64
	log      *logger.Logger

	// compute-once-then-freeze: 성공 후에는 읽기 전용
	mu      sync.Mutex
	vectors atomic.Pointer[[]themeVector]
}

// NewSimilarity creates the strategy. Theme vectors are computed lazily on the first
// Prepare or Classify call.
func NewSimilarity(cfg *macroconfig.Config, embedder contracts.Embedder, log *logger.Logger) *Similarity {
	if log == nil {
		log = logger.NewNop()
	}
	return &Similarity{
		embedder: embedder,
		themes:   cfg.DescribedThemes(),
		ratio:    cfg.Classifier.SecondaryRatio,
		log:      log.WithComponent("classifier.similarity"),
	}
}

// Strategy implements Classifier
func (s *Similarity) Strategy() string {
	return StrategySimilarity
}

// Prepare embeds every theme description once. After the first success the
// vectors are frozen and later calls return immediately. A failure leaves the
// cache empty so the next call retries.
func (s *Similarity) Prepare(ctx context.Context) error {
	if s.vectors.Load() != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vectors.Load() != nil {
		return nil
	}

	start := time.Now()
	vectors := make([]themeVector, 0, len(s.themes))
	for _, t := range s.themes {
		vec, err := s.embedder.Embed(ctx, t.Description)
		if err != nil {
			return embeddingError(fmt.Sprintf("embed theme %s", t.ID), err)
		}
		vectors = append(vectors, themeVector{id: t.ID, vector: vec})
	}

	s.vectors.Store(&vectors)
	s.log.WithFields(map[string]interface{}{
		"themes":   len(vectors),
		"duration": time.Since(start).String(),
	}).Info("Theme embeddings prepared")

	return nil
}

// Ready reports whether theme vectors are cached
func (s *Similarity) Ready() bool {
	return s.vectors.Load() != nil
}

// Classify implements Classifier
func (s *Similarity) Classify(ctx context.Context, headline string) (contracts.ClassificationResult, error) {
	if strings.TrimSpace(headline) == "" {
		return contracts.ClassificationResult{}, contracts.ErrEmptyHeadline
	}
	if err := s.Prepare(ctx); err != nil {
		return contracts.ClassificationResult{}, err
	}
	themes := *s.vectors.Load()
	if len(themes) == 0 {
		return contracts.ClassificationResult{}, fmt.Errorf("similarity strategy has no described themes")
	}

	headlineVec, err := s.embedder.Embed(ctx, headline)
	if err != nil {
		return contracts.ClassificationResult{}, embeddingError("embed headline", err)
	}

	scores := make([]float64, len(themes))
	for i, t := range themes {
		sim, err := Cosine(headlineVec, t.vector)
		if err != nil {
			return contracts.ClassificationResult{}, embeddingError(fmt.Sprintf("compare with %s", t.id), err)
		}
		scores[i] = sim
	}

	primary, secondary := pickThemes(scores, s.ratio)

	result := contracts.ClassificationResult{
		Tier:   contracts.TierMacro,
		Theme:  themes[primary].id,
		Reason: "closest theme by description similarity",
		Scores: &contracts.SimilarityScores{Primary: scores[primary]},
	}
	if secondary >= 0 {
		result.Secondary = themes[secondary].id
		result.Scores.Secondary = scores[secondary]
	}

	return result, nil
}

// pickThemes returns the primary index and the secondary index (-1 if none).
// Ties go to the theme enumerated first. The secondary is the highest-scoring
// theme above ratio × primary.
func pickThemes(scores []float64, ratio float64) (int, int) {
	primary := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[primary] {
			primary = i
		}
	}

	threshold := ratio * scores[primary]
	secondary := -1
	for i, sc := range scores {
		if i == primary || sc <= threshold {
			continue
		}
		if secondary < 0 || sc > scores[secondary] {
			secondary = i
		}
	}
	return primary, secondary
}

// ErrDimensionMismatch: headline and theme vectors come from different models
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Cosine returns the cosine similarity of a and b. A zero vector scores 0.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// embeddingError tags err as an embedding-service failure unless it already is
// one or it is the caller's own cancellation.
func embeddingError(op string, err error) error {
	if errors.Is(err, contracts.ErrEmbeddingService) || isCallerAbort(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", contracts.ErrEmbeddingService, op, err)
}

func isCallerAbort(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
