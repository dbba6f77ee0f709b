package cohere

import (
	"context"
	"fmt"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService generates query embeddings using the Cohere embed API.
type EmbeddingService struct {
	client *Client
	model  string
}

// embedRequest is the Cohere /v2/embed request format.
type embedRequest struct {
	Model          string   `json:"model"`
	Texts          []string `json:"texts"`
	InputType      string   `json:"input_type"`
	EmbeddingTypes []string `json:"embedding_types"`
}

// embedResponse is the Cohere /v2/embed response format.
type embedResponse struct {
	Embeddings struct {
		Float [][]float32 `json:"float"`
	} `json:"embeddings"`
}

// NewEmbeddingService creates an embedding adapter over the shared client.
// An empty model selects the default multilingual embedding model.
func NewEmbeddingService(client *Client, model string) *EmbeddingService {
	if model == "" {
		model = DefaultEmbedModel
	}
	return &EmbeddingService{client: client, model: model}
}

// EmbedQuery generates the query embedding for the given text.
func (s *EmbeddingService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var out embedResponse
	err := s.client.postJSON(ctx, "/v2/embed", embedRequest{
		Model:          s.model,
		Texts:          []string{text},
		InputType:      "search_query",
		EmbeddingTypes: []string{"float"},
	}, &out)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "embed", Detail: "model " + s.model, Err: err}
	}
	if len(out.Embeddings.Float) == 0 {
		return nil, &domain.UpstreamError{
			Op:     "embed",
			Detail: "model " + s.model,
			Err:    fmt.Errorf("no embedding returned"),
		}
	}
	return out.Embeddings.Float[0], nil
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}
