// Package htmltomarkdown converts raw HTML documents to markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/doctrail/doctrail"
)

// Ensure Converter implements doctrail.Converter at compile time.
var _ doctrail.Converter = (*Converter)(nil)

// Converter turns raw HTML bytes into markdown text. When configured
// with an extractor, the page is first reduced to its main content so
// navigation and boilerplate never reach the markdown output.
type Converter struct {
	conv      *converter.Converter
	extractor doctrail.Extractor
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithExtractor runs the given extractor over the HTML before
// conversion, keeping only the main content.
func WithExtractor(e doctrail.Extractor) ConverterOption {
	return func(c *Converter) {
		c.extractor = e
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...ConverterOption) *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	c := &Converter{conv: conv}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms raw HTML content into markdown.
func (c *Converter) Convert(raw []byte) (string, error) {
	html := string(raw)
	if strings.TrimSpace(html) == "" {
		return "", doctrail.Errorf(doctrail.ECONVERSION, "empty HTML input")
	}

	if c.extractor != nil {
		result, err := c.extractor.Extract(html)
		if err != nil {
			return "", doctrail.Errorf(doctrail.ECONVERSION, "extracting main content: %v", err)
		}
		if result.ContentHTML != "" {
			html = result.ContentHTML
			if result.Title != "" {
				html = "<h1>" + result.Title + "</h1>\n" + html
			}
		}
	}

	markdown, err := c.conv.ConvertString(html)
	if err != nil {
		return "", doctrail.Errorf(doctrail.ECONVERSION, "converting to markdown: %v", err)
	}

	return markdown, nil
}
