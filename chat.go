package doctrail

import "context"

// Message roles as used by chat backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionStream is a lazy, finite, non-restartable sequence of text
// fragments produced by a chat backend. Recv returns io.EOF after the
// final fragment. Cancellation is caller-driven: stop consuming and call
// Close.
type CompletionStream interface {
	Recv() (string, error)
	Close() error
}

// Completion is the result of one retrieval-augmented completion call: the
// token stream plus the chunks that were injected as context, available
// before the first token arrives.
type Completion struct {
	Stream  CompletionStream
	Sources []SearchResult
}

// ChatService streams completions from a chat backend.
type ChatService interface {
	// StreamCompletion starts a completion for the given conversation and
	// returns a stream of text fragments. Any backend error surfaces to
	// the caller, either immediately or from Recv.
	StreamCompletion(ctx context.Context, messages []Message) (CompletionStream, error)
}
