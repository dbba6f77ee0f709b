// Package driving provides interfaces for application entry points (primary/inbound ports).
package driving

import (
	"context"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
)

// AskService answers natural-language questions over the indexed corpus.
type AskService interface {
	// Ask runs the full pipeline (embed, retrieve, rerank, assemble,
	// generate, extract citations) and returns the answer envelope.
	// In mock mode it returns a canned response without touching any
	// external service.
	Ask(ctx context.Context, question string, topK int) (domain.AskResponse, error)

	// Prepare runs the pipeline up to and including context assembly and
	// returns the prompt bundle, leaving generation to the caller. Used by
	// the streaming transport.
	Prepare(ctx context.Context, question string) (domain.PromptBundle, error)
}
