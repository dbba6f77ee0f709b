package cohere

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
)

// Ensure GenerationService implements the interface.
var _ driven.GenerationService = (*GenerationService)(nil)

// generationTemperature is fixed and low: grounded, faithful completions
// are preferred over creative ones.
const generationTemperature = 0.2

// GenerationService produces answers using the Cohere chat API.
type GenerationService struct {
	client *Client
	model  string
}

// chatRequest is the Cohere /v2/chat request format.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []chatMsg `json:"messages"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream,omitempty"`
}

// chatMsg is the Cohere chat message format.
type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the Cohere /v2/chat response format.
type chatResponse struct {
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
}

// streamChunk is one decoded server-sent chat event. Only content deltas
// carry text; the remaining event types are control frames.
type streamChunk struct {
	Type  string `json:"type"`
	Delta struct {
		Message struct {
			Content struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"message"`
	} `json:"delta"`
}

// NewGenerationService creates a chat adapter over the shared client.
// An empty model selects the default chat model.
func NewGenerationService(client *Client, model string) *GenerationService {
	if model == "" {
		model = DefaultChatModel
	}
	return &GenerationService{client: client, model: model}
}

func (s *GenerationService) request(messages []driven.ChatMessage, stream bool) chatRequest {
	msgs := make([]chatMsg, len(messages))
	for i, m := range messages {
		msgs[i] = chatMsg{Role: m.Role, Content: m.Content}
	}
	return chatRequest{
		Model:       s.model,
		Messages:    msgs,
		Temperature: generationTemperature,
		Stream:      stream,
	}
}

// Generate runs one blocking completion and returns the full answer text.
func (s *GenerationService) Generate(ctx context.Context, messages []driven.ChatMessage) (string, error) {
	var out chatResponse
	if err := s.client.postJSON(ctx, "/v2/chat", s.request(messages, false), &out); err != nil {
		return "", &domain.UpstreamError{Op: "generate", Detail: "model " + s.model, Err: err}
	}

	var b strings.Builder
	for _, part := range out.Message.Content {
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", &domain.UpstreamError{
			Op:     "generate",
			Detail: "model " + s.model,
			Err:    fmt.Errorf("no content returned"),
		}
	}
	return b.String(), nil
}

// Stream starts a completion and delivers fragments as they arrive.
// Failure to start the call is returned directly; once the stream is open,
// failures arrive as a terminal in-band event because earlier fragments may
// already have been delivered.
func (s *GenerationService) Stream(ctx context.Context, messages []driven.ChatMessage) (<-chan driven.StreamEvent, error) {
	resp, err := s.client.post(ctx, "/v2/chat", s.request(messages, true))
	if err != nil {
		return nil, &domain.UpstreamError{Op: "generate", Detail: "model " + s.model, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &domain.UpstreamError{
			Op:     "generate",
			Detail: "model " + s.model,
			Err:    fmt.Errorf("cohere error (status %d): %s", resp.StatusCode, string(data)),
		}
	}

	events := make(chan driven.StreamEvent)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			data, ok := strings.CutPrefix(line, "data: ")
			if !ok || data == "" || data == "[DONE]" {
				continue
			}

			frag, ok := normaliseChunk(data)
			if !ok {
				continue
			}
			select {
			case events <- driven.StreamEvent{Fragment: frag}:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case events <- driven.StreamEvent{
				Err: &domain.UpstreamError{Op: "generate", Detail: "model " + s.model, Err: err},
			}:
			case <-ctx.Done():
			}
		}
	}()
	return events, nil
}

// normaliseChunk turns one wire payload into a tagged fragment. Content
// deltas become text fragments; decodable control frames with no text are
// skipped; anything undecodable is kept verbatim as an unrecognised
// fragment so no model output is silently dropped.
func normaliseChunk(data string) (driven.Fragment, bool) {
	var chunk streamChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return driven.Fragment{Kind: driven.FragmentUnrecognised, Value: data}, true
	}
	if text := chunk.Delta.Message.Content.Text; text != "" {
		return driven.Fragment{Kind: driven.FragmentText, Value: text}, true
	}
	return driven.Fragment{}, false
}

// ModelName returns the name of the generation model being used.
func (s *GenerationService) ModelName() string {
	return s.model
}
