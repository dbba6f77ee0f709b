package cohere

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
)

func testMessages() []driven.ChatMessage {
	return []driven.ChatMessage{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "question"},
	}
}

func TestGenerateConcatenatesContentParts(t *testing.T) {
	var gotReq chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"message":{"content":[
			{"type":"text","text":"hello "},
			{"type":"text","text":"world"}
		]}}`))
	})
	svc := NewGenerationService(client, "")

	answer, err := svc.Generate(context.Background(), testMessages())
	require.NoError(t, err)

	assert.Equal(t, "hello world", answer)
	assert.Equal(t, DefaultChatModel, gotReq.Model)
	assert.False(t, gotReq.Stream)
	assert.InDelta(t, generationTemperature, gotReq.Temperature, 1e-9)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
}

func TestGenerateEmptyContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"message":{"content":[]}}`))
	})
	svc := NewGenerationService(client, "")

	_, err := svc.Generate(context.Background(), testMessages())
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "generate", upstream.Op)
}

func streamBody(events ...string) string {
	var body string
	for _, e := range events {
		body += "data: " + e + "\n\n"
	}
	return body
}

func collect(t *testing.T, events <-chan driven.StreamEvent) []driven.StreamEvent {
	t.Helper()
	var got []driven.StreamEvent
	for ev := range events {
		got = append(got, ev)
	}
	return got
}

func TestStreamDeliversTextFragments(t *testing.T) {
	var gotReq chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, streamBody(
			`{"type":"message-start"}`,
			`{"type":"content-delta","delta":{"message":{"content":{"text":"پاسخ "}}}}`,
			`{"type":"content-delta","delta":{"message":{"content":{"text":"کوتاه"}}}}`,
			`{"type":"message-end"}`,
		))
	})
	svc := NewGenerationService(client, "")

	events, err := svc.Stream(context.Background(), testMessages())
	require.NoError(t, err)
	assert.True(t, gotReq.Stream)

	got := collect(t, events)
	require.Len(t, got, 2)
	assert.Equal(t, driven.Fragment{Kind: driven.FragmentText, Value: "پاسخ "}, got[0].Fragment)
	assert.Equal(t, driven.Fragment{Kind: driven.FragmentText, Value: "کوتاه"}, got[1].Fragment)
	for _, ev := range got {
		assert.NoError(t, ev.Err)
	}
}

func TestStreamKeepsUndecodablePayloads(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, streamBody(`not json at all`))
	})
	svc := NewGenerationService(client, "")

	events, err := svc.Stream(context.Background(), testMessages())
	require.NoError(t, err)

	got := collect(t, events)
	require.Len(t, got, 1)
	assert.Equal(t, driven.FragmentUnrecognised, got[0].Fragment.Kind)
	assert.Equal(t, "not json at all", got[0].Fragment.Value)
}

func TestStreamSkipsControlFramesAndDone(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, streamBody(
			`{"type":"message-start"}`,
			`[DONE]`,
		))
		fmt.Fprint(w, ": comment line\n\n")
	})
	svc := NewGenerationService(client, "")

	events, err := svc.Stream(context.Background(), testMessages())
	require.NoError(t, err)
	assert.Empty(t, collect(t, events))
}

func TestStreamStartFailureReturnedDirectly(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"bad key"}`))
	})
	svc := NewGenerationService(client, "")

	_, err := svc.Stream(context.Background(), testMessages())
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, err.Error(), "bad key")
}

func TestNormaliseChunk(t *testing.T) {
	frag, ok := normaliseChunk(`{"type":"content-delta","delta":{"message":{"content":{"text":"hi"}}}}`)
	require.True(t, ok)
	assert.Equal(t, driven.Fragment{Kind: driven.FragmentText, Value: "hi"}, frag)

	_, ok = normaliseChunk(`{"type":"message-end"}`)
	assert.False(t, ok)

	frag, ok = normaliseChunk(`{{broken`)
	require.True(t, ok)
	assert.Equal(t, driven.FragmentUnrecognised, frag.Kind)
}
