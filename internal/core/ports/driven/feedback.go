package driven

import (
	"context"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
)

// FeedbackStore appends user feedback records. Write-only by design:
// feedback is logged for later analysis, never read back by the service.
type FeedbackStore interface {
	// Save persists one feedback record and returns it with its
	// assigned id.
	Save(ctx context.Context, fb domain.Feedback) (domain.Feedback, error)
}
