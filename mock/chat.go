package mock

import (
	"context"
	"io"

	"github.com/doctrail/doctrail"
)

var _ doctrail.ChatService = (*ChatService)(nil)

// ChatService is a mock implementation of doctrail.ChatService.
type ChatService struct {
	StreamCompletionFn func(ctx context.Context, messages []doctrail.Message) (doctrail.CompletionStream, error)
}

func (s *ChatService) StreamCompletion(ctx context.Context, messages []doctrail.Message) (doctrail.CompletionStream, error) {
	return s.StreamCompletionFn(ctx, messages)
}

var _ doctrail.CompletionStream = (*CompletionStream)(nil)

// CompletionStream replays a fixed sequence of fragments, then io.EOF.
type CompletionStream struct {
	Fragments []string
	Closed    bool

	pos int
}

func (s *CompletionStream) Recv() (string, error) {
	if s.pos >= len(s.Fragments) {
		return "", io.EOF
	}
	fragment := s.Fragments[s.pos]
	s.pos++
	return fragment, nil
}

func (s *CompletionStream) Close() error {
	s.Closed = true
	return nil
}
