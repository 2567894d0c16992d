package contracts

import "errors"

// Error kinds surfaced by the pipeline. Callers match them with errors.Is.
var (
	// ErrInvalidPortfolio: weights do not sum to 100 (or are negative / empty)
	ErrInvalidPortfolio = errors.New("invalid portfolio")

	// ErrEmptyHeadline: no analysis performed
	ErrEmptyHeadline = errors.New("empty headline")

	// ErrEmbeddingService: the embedding call failed, timed out or was rejected
	ErrEmbeddingService = errors.New("embedding service failure")

	// ErrDegenerateRenormalization: post-rule weights sum to zero or less
	ErrDegenerateRenormalization = errors.New("degenerate renormalization")

	ErrInvalidHorizon = errors.New("invalid investment horizon")
	ErrInvalidCapital = errors.New("invalid capital amount")
)

// IsInputError reports whether err was caused by caller input rather than a collaborator
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidPortfolio) ||
		errors.Is(err, ErrEmptyHeadline) ||
		errors.Is(err, ErrInvalidHorizon) ||
		errors.Is(err, ErrInvalidCapital)
}
