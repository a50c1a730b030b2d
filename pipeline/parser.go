package pipeline

import (
	"context"
	"path/filepath"

	"github.com/doctrail/doctrail"
)

// Parser converts stored raw documents to markdown and records where the
// parsed rendition lives on each node.
type Parser struct {
	Lineage   doctrail.LineageService
	Store     doctrail.DocumentStore
	Converter doctrail.Converter

	// StorageRoot is the base directory for stored documents.
	StorageRoot string
}

// ParseResult summarizes a batch parse run over one site.
type ParseResult struct {
	Parsed   int
	Failures []LeafFailure
}

// Parse converts the raw document of one node to markdown, stores the
// result and returns the markdown text.
//
// The parsed storage path is recorded on the node before conversion, so
// a conversion failure leaves a reserved location that a retry will
// reuse. Returns EMISSINGINPUT if the node has no raw document and
// ECONVERSION if the content cannot be converted.
func (p *Parser) Parse(ctx context.Context, nodeID string) (string, error) {
	node, err := p.Lineage.FindNodeByID(ctx, nodeID)
	if err != nil {
		return "", err
	}

	leafPath, err := p.Lineage.LeafPath(ctx, nodeID)
	if err != nil {
		return "", err
	}

	node.ParsingStoragePath = filepath.Join(p.StorageRoot, "parsed_docs", leafPath+".md")
	if err := p.Lineage.UpdateNode(ctx, node); err != nil {
		return "", err
	}

	if node.StoragePath == "" {
		return "", doctrail.Errorf(doctrail.EMISSINGINPUT, "node %q has no stored document", nodeID)
	}

	raw, err := p.Store.Read(node.StoragePath)
	if err != nil {
		return "", err
	}

	text, err := p.Converter.Convert(raw)
	if err != nil {
		return "", err
	}

	if _, err := p.Store.Write(node.ParsingStoragePath, []byte(text)); err != nil {
		return "", err
	}

	return text, nil
}

// ParseSite parses every leaf of a site. Individual failures are
// recorded in the result and do not stop the run.
func (p *Parser) ParseSite(ctx context.Context, siteName string) (*ParseResult, error) {
	if siteName == "" {
		return nil, doctrail.Errorf(doctrail.EINVALID, "site name required")
	}

	leaves, err := p.Lineage.FindLeavesBySite(ctx, siteName)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	for _, leaf := range leaves {
		if _, err := p.Parse(ctx, leaf.ID); err != nil {
			result.Failures = append(result.Failures, LeafFailure{NodeID: leaf.ID, URL: leaf.URL, Err: err})
			continue
		}
		result.Parsed++
	}

	return result, nil
}
