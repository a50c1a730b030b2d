// Package bleve provides a full-text similarity index over document
// chunks, used to retrieve context for completions.
package bleve

import (
	"context"

	"github.com/blevesearch/bleve"
	"github.com/doctrail/doctrail"
	"github.com/google/uuid"
)

// Ensure Index implements doctrail.SimilarityIndex at compile time.
var _ doctrail.SimilarityIndex = (*Index)(nil)

// chunkDoc is the shape of an indexed chunk.
type chunkDoc struct {
	Text string `json:"text"`
}

// Index stores text chunks in a bleve index and ranks them against
// queries with bleve's match scoring.
type Index struct {
	index bleve.Index
}

// NewIndex opens the index at path, creating it if it does not exist.
func NewIndex(path string) (*Index, error) {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(path, bleve.NewIndexMapping())
	}
	if err != nil {
		return nil, doctrail.Errorf(doctrail.EPERSISTENCE, "open index at %q: %v", path, err)
	}
	return &Index{index: index}, nil
}

// NewMemOnly creates an in-memory index that is discarded on Close.
func NewMemOnly() (*Index, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, doctrail.Errorf(doctrail.EPERSISTENCE, "create in-memory index: %v", err)
	}
	return &Index{index: index}, nil
}

// Index stores every chunk under a freshly generated unique id.
func (i *Index) Index(ctx context.Context, chunks []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	batch := i.index.NewBatch()
	for _, chunk := range chunks {
		if err := batch.Index(uuid.New().String(), chunkDoc{Text: chunk}); err != nil {
			return doctrail.Errorf(doctrail.EPERSISTENCE, "index chunk: %v", err)
		}
	}

	if err := i.index.Batch(batch); err != nil {
		return doctrail.Errorf(doctrail.EPERSISTENCE, "index batch: %v", err)
	}
	return nil
}

// Search returns up to k chunks ranked by similarity to the query.
func (i *Index) Search(ctx context.Context, query string, k int) ([]doctrail.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, doctrail.Errorf(doctrail.EINVALID, "k must be positive, got %d", k)
	}

	q := bleve.NewMatchQuery(query)
	searchReq := bleve.NewSearchRequestOptions(q, k, 0, false)
	searchReq.Fields = []string{"text"}

	res, err := i.index.Search(searchReq)
	if err != nil {
		return nil, doctrail.Errorf(doctrail.EPERSISTENCE, "search: %v", err)
	}

	var results []doctrail.SearchResult
	for _, hit := range res.Hits {
		text, ok := hit.Fields["text"].(string)
		if !ok {
			continue
		}
		results = append(results, doctrail.SearchResult{
			Text:  text,
			Score: hit.Score,
		})
	}
	return results, nil
}

// Close releases the index resources.
func (i *Index) Close() error {
	return i.index.Close()
}
