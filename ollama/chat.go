// Package ollama provides a chat service backed by a local Ollama server.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/doctrail/doctrail"
)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
)

// Ensure ChatService implements doctrail.ChatService at compile time.
var _ doctrail.ChatService = (*ChatService)(nil)

// ChatService streams completions from Ollama's /api/chat endpoint.
type ChatService struct {
	client  *http.Client
	baseURL string
	model   string
}

// Option configures a ChatService.
type Option func(*ChatService)

// WithBaseURL sets the Ollama API base URL.
// Defaults to DefaultBaseURL if not specified.
func WithBaseURL(url string) Option {
	return func(s *ChatService) {
		s.baseURL = url
	}
}

// WithModel sets the model used for completions.
// Defaults to DefaultModel if not specified.
func WithModel(model string) Option {
	return func(s *ChatService) {
		s.model = model
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(s *ChatService) {
		s.client = client
	}
}

// NewChatService creates a new ChatService.
func NewChatService(opts ...Option) *ChatService {
	s := &ChatService{
		client:  http.DefaultClient,
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string             `json:"model"`
	Messages []doctrail.Message `json:"messages"`
	Stream   bool               `json:"stream"`
}

// chatResponse is one NDJSON line of the streaming /api/chat response.
type chatResponse struct {
	Message doctrail.Message `json:"message"`
	Done    bool             `json:"done"`
}

// StreamCompletion starts a streaming completion for the conversation.
func (s *ChatService) StreamCompletion(ctx context.Context, messages []doctrail.Message) (doctrail.CompletionStream, error) {
	if len(messages) == 0 {
		return nil, doctrail.Errorf(doctrail.EINVALID, "at least one message required")
	}

	body, err := json.Marshal(chatRequest{
		Model:    s.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("ollama HTTP %d: %s", resp.StatusCode, msg)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	return &stream{
		body:    resp.Body,
		scanner: scanner,
	}, nil
}

// maxLineBytes bounds a single NDJSON response line. Fragments carrying a
// whole buffered answer can exceed the scanner's 64KiB default.
const maxLineBytes = 10 * 1024 * 1024

// stream reads NDJSON fragments from the response body.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
}

// Recv returns the next text fragment, or io.EOF after the final one.
func (s *stream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}

	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var resp chatResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			return "", fmt.Errorf("decoding ollama response: %w", err)
		}

		if resp.Done {
			s.done = true
			if resp.Message.Content != "" {
				return resp.Message.Content, nil
			}
			return "", io.EOF
		}
		return resp.Message.Content, nil
	}

	if err := s.scanner.Err(); err != nil {
		return "", err
	}

	s.done = true
	return "", io.EOF
}

// Close releases the underlying response body.
func (s *stream) Close() error {
	return s.body.Close()
}
