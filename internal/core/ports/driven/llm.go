package driven

import "context"

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system" or "user".
	Role string

	// Content is the message text.
	Content string
}

// FragmentKind tags a streamed generation fragment.
type FragmentKind int

const (
	// FragmentText is a fragment with directly extractable text.
	FragmentText FragmentKind = iota

	// FragmentUnrecognised is a fragment the client could not decode.
	// Its Value holds the raw payload so no data is silently dropped.
	FragmentUnrecognised
)

// Fragment is one piece of streamed model output, normalised once at the
// client boundary so downstream code never inspects wire payloads.
// Fragments carry no boundary guarantees and may split mid-word.
type Fragment struct {
	Kind  FragmentKind
	Value string
}

// StreamEvent is one event on a generation stream. Exactly one of Fragment
// or Err is meaningful: a non-nil Err is terminal and the channel closes
// after it. Errors arrive in-band because earlier fragments may already
// have been delivered to the consumer.
type StreamEvent struct {
	Fragment Fragment
	Err      error
}

// GenerationService produces grounded answers from the assembled prompt.
type GenerationService interface {
	// Generate runs one blocking completion over the messages and returns
	// the full answer text.
	Generate(ctx context.Context, messages []ChatMessage) (string, error)

	// Stream starts a completion and delivers output incrementally.
	// The returned channel is finite and non-restartable; it closes when
	// the model finishes or after a terminal error event. Emission stops
	// when ctx is cancelled.
	//
	// An error starting the call is returned directly; mid-stream failures
	// are delivered as the final StreamEvent instead.
	Stream(ctx context.Context, messages []ChatMessage) (<-chan StreamEvent, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string
}
