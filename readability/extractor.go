// Package readability provides a lighter-weight alternative to the
// trafilatura extractor, backed by go-readability.
package readability

import (
	"strings"

	"github.com/doctrail/doctrail"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements doctrail.Extractor at compile time.
var _ doctrail.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*doctrail.ExtractResult, error) {
	if rawHTML == "" {
		return nil, doctrail.Errorf(doctrail.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, doctrail.Errorf(doctrail.ECONVERSION, "extracting content: %v", err)
	}

	return &doctrail.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
