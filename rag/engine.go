// Package rag implements retrieval-augmented completions: questions are
// answered by a chat backend with relevant document chunks injected as
// context.
package rag

import (
	"context"
	"strings"

	"github.com/doctrail/doctrail"
)

// DefaultTopK is the number of chunks retrieved per question when none
// is configured.
const DefaultTopK = 5

// DefaultSystemPrompt instructs the model to stay grounded in the
// retrieved context.
const DefaultSystemPrompt = "You are a helpful assistant answering questions about software documentation. " +
	"Answer based only on the context provided with each question. " +
	"If the answer is not in the context, say so."

// Engine produces retrieval-augmented completions. For each question it
// retrieves the most similar indexed chunks and appends them as context
// to the final user message before handing the conversation to the chat
// backend.
type Engine struct {
	Index doctrail.SimilarityIndex
	Chat  doctrail.ChatService

	// TopK is the number of chunks retrieved per question.
	// Defaults to DefaultTopK.
	TopK int

	// SystemPrompt is prepended to every conversation.
	// Defaults to DefaultSystemPrompt.
	SystemPrompt string
}

// Complete answers the conversation's final message with retrieved
// context. The caller's message slice is never modified. The returned
// sources are available before the first token of the stream arrives.
func (e *Engine) Complete(ctx context.Context, messages []doctrail.Message) (*doctrail.Completion, error) {
	if len(messages) == 0 {
		return nil, doctrail.Errorf(doctrail.EMISSINGINPUT, "at least one message required")
	}

	last := messages[len(messages)-1]
	if strings.TrimSpace(last.Content) == "" {
		return nil, doctrail.Errorf(doctrail.EMISSINGINPUT, "question must not be empty")
	}

	topK := e.TopK
	if topK == 0 {
		topK = DefaultTopK
	}

	sources, err := e.Index.Search(ctx, "QUESTION: "+last.Content, topK)
	if err != nil {
		return nil, err
	}

	prompt := e.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}

	// Copy the conversation so the caller's slice stays untouched.
	augmented := make([]doctrail.Message, 0, len(messages)+1)
	augmented = append(augmented, doctrail.Message{Role: doctrail.RoleSystem, Content: prompt})
	augmented = append(augmented, messages...)

	// The context block is only attached when retrieval found something;
	// an empty index leaves the question as-is.
	content := "QUESTION: " + last.Content
	if len(sources) > 0 {
		chunks := make([]string, len(sources))
		for i, source := range sources {
			chunks[i] = source.Text
		}
		content += "\nCONTEXT: " + strings.Join(chunks, "\n")
	}
	augmented[len(augmented)-1] = doctrail.Message{
		Role:    last.Role,
		Content: content,
	}

	stream, err := e.Chat.StreamCompletion(ctx, augmented)
	if err != nil {
		return nil, err
	}

	return &doctrail.Completion{
		Stream:  stream,
		Sources: sources,
	}, nil
}
