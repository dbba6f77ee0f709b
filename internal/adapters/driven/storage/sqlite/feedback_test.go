package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
)

func TestFeedbackSaveAssignsID(t *testing.T) {
	store := newTestStore(t)
	comment := "helpful answer"

	saved, err := store.FeedbackStore().Save(context.Background(), domain.Feedback{
		Question: "لینوکس چیست؟",
		Answer:   "یک هسته",
		Rating:   1,
		Comment:  &comment,
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	var (
		question, answer string
		rating           int
		gotComment       *string
	)
	require.NoError(t, store.db.QueryRow(
		"SELECT question, answer, rating, comment FROM feedback WHERE id = ?", saved.ID).
		Scan(&question, &answer, &rating, &gotComment))

	assert.Equal(t, "لینوکس چیست؟", question)
	assert.Equal(t, "یک هسته", answer)
	assert.Equal(t, 1, rating)
	require.NotNil(t, gotComment)
	assert.Equal(t, comment, *gotComment)
}

func TestFeedbackSaveWithoutComment(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.FeedbackStore().Save(context.Background(), domain.Feedback{
		Question: "q",
		Answer:   "a",
		Rating:   -1,
	})
	require.NoError(t, err)

	var gotComment *string
	require.NoError(t, store.db.QueryRow(
		"SELECT comment FROM feedback WHERE id = ?", saved.ID).Scan(&gotComment))
	assert.Nil(t, gotComment)
}

func TestFeedbackSaveIDsAreUnique(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.FeedbackStore().Save(ctx, domain.Feedback{Question: "q", Answer: "a"})
	require.NoError(t, err)
	second, err := store.FeedbackStore().Save(ctx, domain.Feedback{Question: "q", Answer: "a"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}
