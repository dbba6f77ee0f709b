package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
)

// Ensure feedbackStore implements the interface.
var _ driven.FeedbackStore = (*feedbackStore)(nil)

// feedbackStore implements driven.FeedbackStore over the unified store.
type feedbackStore struct {
	store *Store
}

// Save persists one feedback record, assigning it an id.
func (f *feedbackStore) Save(ctx context.Context, fb domain.Feedback) (domain.Feedback, error) {
	fb.ID = uuid.NewString()

	var comment any
	if fb.Comment != nil {
		comment = *fb.Comment
	}
	_, err := f.store.db.ExecContext(ctx, `
		INSERT INTO feedback (id, question, answer, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, fb.ID, fb.Question, fb.Answer, fb.Rating, comment, time.Now().UTC())
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("saving feedback: %w", err)
	}
	return fb, nil
}
