package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/doctrail/doctrail"
	"github.com/doctrail/doctrail/mock"
	"github.com/doctrail/doctrail/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("streams the answer to stdout", func(t *testing.T) {
		t.Parallel()

		index := &mock.SimilarityIndex{
			SearchFn: func(ctx context.Context, query string, k int) ([]doctrail.SearchResult, error) {
				return []doctrail.SearchResult{{Text: "Deploys use rolling updates.", Score: 1.5}}, nil
			},
		}
		chat := &mock.ChatService{
			StreamCompletionFn: func(ctx context.Context, messages []doctrail.Message) (doctrail.CompletionStream, error) {
				return &mock.CompletionStream{Fragments: []string{"Rolling ", "updates."}}, nil
			},
		}

		var stdout, stderr bytes.Buffer
		deps := &Dependencies{
			Ctx:    context.Background(),
			Stdout: &stdout,
			Stderr: &stderr,
			Engine: &rag.Engine{Index: index, Chat: chat},
		}

		cmd := &AskCmd{Question: "How do deploys work?"}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "Rolling updates.\n", stdout.String())
		assert.Empty(t, stderr.String())
	})

	t.Run("prints sources when requested", func(t *testing.T) {
		t.Parallel()

		index := &mock.SimilarityIndex{
			SearchFn: func(ctx context.Context, query string, k int) ([]doctrail.SearchResult, error) {
				return []doctrail.SearchResult{
					{Text: "chunk one", Score: 1.25},
					{Text: "chunk two", Score: 0.75},
				}, nil
			},
		}
		chat := &mock.ChatService{
			StreamCompletionFn: func(ctx context.Context, messages []doctrail.Message) (doctrail.CompletionStream, error) {
				return &mock.CompletionStream{Fragments: []string{"answer"}}, nil
			},
		}

		var stdout bytes.Buffer
		deps := &Dependencies{
			Ctx:    context.Background(),
			Stdout: &stdout,
			Stderr: &bytes.Buffer{},
			Engine: &rag.Engine{Index: index, Chat: chat},
		}

		cmd := &AskCmd{Question: "q", Sources: true}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "Sources:")
		assert.Contains(t, stdout.String(), "1. (1.25) chunk one")
		assert.Contains(t, stdout.String(), "2. (0.75) chunk two")
	})

	t.Run("reports engine errors on stderr", func(t *testing.T) {
		t.Parallel()

		index := &mock.SimilarityIndex{
			SearchFn: func(ctx context.Context, query string, k int) ([]doctrail.SearchResult, error) {
				return nil, doctrail.Errorf(doctrail.EPERSISTENCE, "index unavailable")
			},
		}

		var stderr bytes.Buffer
		deps := &Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &stderr,
			Engine: &rag.Engine{Index: index, Chat: &mock.ChatService{}},
		}

		cmd := &AskCmd{Question: "q"}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "index unavailable")
	})
}
