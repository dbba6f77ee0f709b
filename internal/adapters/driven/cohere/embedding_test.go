package cohere

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
)

func TestEmbedQuery(t *testing.T) {
	var gotReq embedRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/embed", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"embeddings":{"float":[[0.1,0.2,0.3]]}}`))
	})
	svc := NewEmbeddingService(client, "")

	vec, err := svc.EmbedQuery(context.Background(), "لینوکس چیست؟")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, DefaultEmbedModel, gotReq.Model)
	assert.Equal(t, []string{"لینوکس چیست؟"}, gotReq.Texts)
	assert.Equal(t, "search_query", gotReq.InputType)
	assert.Equal(t, []string{"float"}, gotReq.EmbeddingTypes)
}

func TestEmbedQueryEmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"embeddings":{"float":[]}}`))
	})
	svc := NewEmbeddingService(client, "custom-model")

	_, err := svc.EmbedQuery(context.Background(), "q")
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "embed", upstream.Op)
	assert.Contains(t, upstream.Detail, "custom-model")
}

func TestEmbedQueryUpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid api token"}`))
	})
	svc := NewEmbeddingService(client, "")

	_, err := svc.EmbedQuery(context.Background(), "q")
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, err.Error(), "invalid api token")
}

func TestEmbeddingModelName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {})
	assert.Equal(t, DefaultEmbedModel, NewEmbeddingService(client, "").ModelName())
	assert.Equal(t, "other", NewEmbeddingService(client, "other").ModelName())
}
