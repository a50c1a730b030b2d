package doctrail

import "context"

// SearchResult is a chunk of indexed text with its similarity score,
// higher meaning more relevant.
type SearchResult struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// SimilarityIndex stores text chunks and retrieves the most similar ones
// for a query.
type SimilarityIndex interface {
	// Index stores every chunk under a freshly generated unique id.
	Index(ctx context.Context, chunks []string) error

	// Search returns up to k chunks ranked by similarity to the query.
	Search(ctx context.Context, query string, k int) ([]SearchResult, error)
}
