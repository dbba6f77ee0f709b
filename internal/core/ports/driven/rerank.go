package driven

import "context"

// RankedItem is one rerank result: the index of the document in the input
// slice plus its relevance score. Results are ordered by relevance descending.
type RankedItem struct {
	// Index points into the candidate slice passed to Rerank.
	Index int

	// Score is the model's relevance score for the candidate.
	Score float64
}

// Reranker re-orders candidate documents by relevance to the question.
//
// Implementations clamp topN to len(documents) - the service never requests
// more outputs than inputs - and short-circuit an empty candidate list to an
// empty result without calling the remote service.
type Reranker interface {
	// Rerank scores documents against the question and returns at most topN
	// items, most relevant first.
	Rerank(ctx context.Context, question string, documents []string, topN int) ([]RankedItem, error)

	// ModelName returns the name of the rerank model being used.
	ModelName() string
}
