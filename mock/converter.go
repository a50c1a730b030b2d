package mock

import "github.com/doctrail/doctrail"

var _ doctrail.Converter = (*Converter)(nil)

// Converter is a mock implementation of doctrail.Converter.
type Converter struct {
	ConvertFn func(raw []byte) (string, error)
}

func (c *Converter) Convert(raw []byte) (string, error) {
	return c.ConvertFn(raw)
}

var _ doctrail.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of doctrail.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*doctrail.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*doctrail.ExtractResult, error) {
	return e.ExtractFn(html)
}
