// Package gemini provides a chat service backed by Google Gemini.
package gemini

import (
	"context"
	"io"
	"iter"

	"github.com/doctrail/doctrail"
	"google.golang.org/genai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure ChatService implements doctrail.ChatService at compile time.
var _ doctrail.ChatService = (*ChatService)(nil)

// ChatService streams completions from the Gemini API.
type ChatService struct {
	client *genai.Client
	model  string
}

// Option configures a ChatService.
type Option func(*ChatService)

// WithModel sets the model used for completions.
// Defaults to DefaultModel if not specified.
func WithModel(model string) Option {
	return func(s *ChatService) {
		s.model = model
	}
}

// NewChatService creates a new ChatService.
func NewChatService(client *genai.Client, opts ...Option) *ChatService {
	s := &ChatService{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StreamCompletion starts a streaming completion for the conversation.
// System messages become the system instruction; the remaining turns map
// to Gemini's user/model roles.
func (s *ChatService) StreamCompletion(ctx context.Context, messages []doctrail.Message) (doctrail.CompletionStream, error) {
	if len(messages) == 0 {
		return nil, doctrail.Errorf(doctrail.EINVALID, "at least one message required")
	}

	contents, config := buildRequest(messages)

	seq := s.client.Models.GenerateContentStream(ctx, s.model, contents, config)
	next, stop := iter.Pull2(seq)

	return &stream{next: next, stop: stop}, nil
}

// buildRequest converts conversation messages into Gemini contents and
// generation config.
func buildRequest(messages []doctrail.Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	var contents []*genai.Content
	config := &genai.GenerateContentConfig{}

	for _, msg := range messages {
		switch msg.Role {
		case doctrail.RoleSystem:
			config.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: msg.Content}},
			}
		case doctrail.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	return contents, config
}

// stream pulls fragments from the Gemini response sequence.
type stream struct {
	next func() (*genai.GenerateContentResponse, error, bool)
	stop func()
}

// Recv returns the next text fragment, or io.EOF after the final one.
func (s *stream) Recv() (string, error) {
	resp, err, ok := s.next()
	if !ok {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", doctrail.Errorf(doctrail.EINTERNAL, "gemini returned nil response")
	}
	return resp.Text(), nil
}

// Close stops the underlying response sequence.
func (s *stream) Close() error {
	s.stop()
	return nil
}
