package driven

import "context"

// EmbeddingService turns a question into a fixed-length query vector.
//
// Implementations must be deterministic for a given model configuration
// (same text, same vector) so results can be cached and tested.
// A missing credential or unreachable service surfaces as
// *domain.UpstreamError / *domain.ConfigurationError; it is not retried
// here beyond the client's own transient-status budget.
type EmbeddingService interface {
	// EmbedQuery generates the query embedding for the given text.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}
