package cohere

import (
	"context"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
)

// Ensure Reranker implements the interface.
var _ driven.Reranker = (*Reranker)(nil)

// Reranker re-orders candidate documents using the Cohere rerank API.
type Reranker struct {
	client *Client
	model  string
}

// rerankRequest is the Cohere /v2/rerank request format.
type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

// rerankResponse is the Cohere /v2/rerank response format.
type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// NewReranker creates a rerank adapter over the shared client.
// An empty model selects the default multilingual rerank model.
func NewReranker(client *Client, model string) *Reranker {
	if model == "" {
		model = DefaultRerankModel
	}
	return &Reranker{client: client, model: model}
}

// Rerank scores documents against the question, most relevant first.
// topN is clamped to the candidate count; an empty candidate list
// short-circuits without a remote call (a zero-length rerank request
// is invalid upstream).
func (r *Reranker) Rerank(ctx context.Context, question string, documents []string, topN int) ([]driven.RankedItem, error) {
	if len(documents) == 0 {
		return []driven.RankedItem{}, nil
	}
	if topN > len(documents) {
		topN = len(documents)
	}

	var out rerankResponse
	err := r.client.postJSON(ctx, "/v2/rerank", rerankRequest{
		Model:     r.model,
		Query:     question,
		Documents: documents,
		TopN:      topN,
	}, &out)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "rerank", Detail: "model " + r.model, Err: err}
	}

	items := make([]driven.RankedItem, 0, len(out.Results))
	for _, res := range out.Results {
		items = append(items, driven.RankedItem{Index: res.Index, Score: res.RelevanceScore})
	}
	return items, nil
}

// ModelName returns the name of the rerank model being used.
func (r *Reranker) ModelName() string {
	return r.model
}
