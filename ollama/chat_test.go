package ollama_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/doctrail/doctrail"
	"github.com/doctrail/doctrail/ollama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain consumes a stream to completion and returns the concatenated text.
func drain(t *testing.T, s doctrail.CompletionStream) string {
	t.Helper()
	defer s.Close()

	var out string
	for {
		fragment, err := s.Recv()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out += fragment
	}
}

func TestChatService_StreamCompletion(t *testing.T) {
	t.Parallel()

	t.Run("streams fragments until done", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/chat", r.URL.Path)

			var req struct {
				Model    string             `json:"model"`
				Messages []doctrail.Message `json:"messages"`
				Stream   bool               `json:"stream"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.True(t, req.Stream)
			assert.Equal(t, "llama3.2", req.Model)
			require.Len(t, req.Messages, 2)

			_, _ = w.Write([]byte(
				`{"message":{"role":"assistant","content":"Hello"},"done":false}` + "\n" +
					`{"message":{"role":"assistant","content":" world"},"done":false}` + "\n" +
					`{"message":{"role":"assistant","content":""},"done":true}` + "\n"))
		}))
		defer srv.Close()

		svc := ollama.NewChatService(ollama.WithBaseURL(srv.URL))

		stream, err := svc.StreamCompletion(context.Background(), []doctrail.Message{
			{Role: doctrail.RoleSystem, Content: "You are helpful."},
			{Role: doctrail.RoleUser, Content: "Say hello."},
		})
		require.NoError(t, err)

		assert.Equal(t, "Hello world", drain(t, stream))
	})

	t.Run("recv keeps returning EOF after the stream ends", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"done"},"done":true}` + "\n"))
		}))
		defer srv.Close()

		svc := ollama.NewChatService(ollama.WithBaseURL(srv.URL))

		stream, err := svc.StreamCompletion(context.Background(), []doctrail.Message{
			{Role: doctrail.RoleUser, Content: "hi"},
		})
		require.NoError(t, err)
		defer stream.Close()

		fragment, err := stream.Recv()
		require.NoError(t, err)
		assert.Equal(t, "done", fragment)

		_, err = stream.Recv()
		assert.Equal(t, io.EOF, err)
		_, err = stream.Recv()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("handles fragments larger than the default scanner buffer", func(t *testing.T) {
		t.Parallel()

		big := strings.Repeat("a", 256*1024)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			line, err := json.Marshal(map[string]any{
				"message": map[string]string{"role": "assistant", "content": big},
				"done":    true,
			})
			require.NoError(t, err)
			_, _ = w.Write(append(line, '\n'))
		}))
		defer srv.Close()

		svc := ollama.NewChatService(ollama.WithBaseURL(srv.URL))

		stream, err := svc.StreamCompletion(context.Background(), []doctrail.Message{
			{Role: doctrail.RoleUser, Content: "hi"},
		})
		require.NoError(t, err)

		assert.Equal(t, big, drain(t, stream))
	})

	t.Run("returns error for non-200 response", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer srv.Close()

		svc := ollama.NewChatService(ollama.WithBaseURL(srv.URL))

		_, err := svc.StreamCompletion(context.Background(), []doctrail.Message{
			{Role: doctrail.RoleUser, Content: "hi"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("rejects empty conversation", func(t *testing.T) {
		t.Parallel()

		svc := ollama.NewChatService()

		_, err := svc.StreamCompletion(context.Background(), nil)
		require.Error(t, err)
		assert.Equal(t, doctrail.EINVALID, doctrail.ErrorCode(err))
	})
}
