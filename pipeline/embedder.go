package pipeline

import (
	"context"

	"github.com/doctrail/doctrail"
)

// Default chunking parameters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Embedder splits parsed documents into chunks and feeds them to the
// similarity index.
type Embedder struct {
	Lineage doctrail.LineageService
	Store   doctrail.DocumentStore
	Index   doctrail.SimilarityIndex

	// ChunkSize is the maximum chunk length in bytes.
	// Defaults to DefaultChunkSize.
	ChunkSize int

	// ChunkOverlap is the maximum overlap between adjacent chunks.
	// Defaults to DefaultChunkOverlap.
	ChunkOverlap int
}

// EmbedResult summarizes a batch embed run over one site.
type EmbedResult struct {
	Embedded int
	Chunks   int
	Failures []LeafFailure
}

// Embed chunks the parsed document of one node and indexes every chunk,
// returning the number of chunks indexed. Returns EMISSINGINPUT if the
// node has never been parsed. Nothing is indexed unless the parsed
// document can be read in full.
func (e *Embedder) Embed(ctx context.Context, nodeID string) (int, error) {
	node, err := e.Lineage.FindNodeByID(ctx, nodeID)
	if err != nil {
		return 0, err
	}

	if node.ParsingStoragePath == "" {
		return 0, doctrail.Errorf(doctrail.EMISSINGINPUT, "node %q has no parsed document", nodeID)
	}

	data, err := e.Store.Read(node.ParsingStoragePath)
	if err != nil {
		return 0, err
	}

	size, overlap := e.ChunkSize, e.ChunkOverlap
	if size == 0 {
		size = DefaultChunkSize
	}
	if overlap == 0 {
		overlap = DefaultChunkOverlap
	}

	chunks, err := doctrail.SplitMarkdown(string(data), size, overlap)
	if err != nil {
		return 0, err
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	if err := e.Index.Index(ctx, texts); err != nil {
		return 0, err
	}

	return len(texts), nil
}

// EmbedSite embeds every leaf of a site. Individual failures are
// recorded in the result and do not stop the run.
func (e *Embedder) EmbedSite(ctx context.Context, siteName string) (*EmbedResult, error) {
	if siteName == "" {
		return nil, doctrail.Errorf(doctrail.EINVALID, "site name required")
	}

	leaves, err := e.Lineage.FindLeavesBySite(ctx, siteName)
	if err != nil {
		return nil, err
	}

	result := &EmbedResult{}
	for _, leaf := range leaves {
		n, err := e.Embed(ctx, leaf.ID)
		if err != nil {
			result.Failures = append(result.Failures, LeafFailure{NodeID: leaf.ID, URL: leaf.URL, Err: err})
			continue
		}
		result.Embedded++
		result.Chunks += n
	}

	return result, nil
}
