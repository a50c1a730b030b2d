package mock

import (
	"context"

	"github.com/doctrail/doctrail"
)

var _ doctrail.SimilarityIndex = (*SimilarityIndex)(nil)

// SimilarityIndex is a mock implementation of doctrail.SimilarityIndex.
type SimilarityIndex struct {
	IndexFn  func(ctx context.Context, chunks []string) error
	SearchFn func(ctx context.Context, query string, k int) ([]doctrail.SearchResult, error)
}

func (i *SimilarityIndex) Index(ctx context.Context, chunks []string) error {
	return i.IndexFn(ctx, chunks)
}

func (i *SimilarityIndex) Search(ctx context.Context, query string, k int) ([]doctrail.SearchResult, error) {
	return i.SearchFn(ctx, query, k)
}
