// Package pdf converts raw PDF documents to plain text.
package pdf

import (
	"os"
	"strings"

	"github.com/doctrail/doctrail"
	pdflib "github.com/ledongthuc/pdf"
)

// Ensure Converter implements doctrail.Converter at compile time.
var _ doctrail.Converter = (*Converter)(nil)

// Converter extracts text from PDF bytes page by page. The output is
// plain text rather than true markdown, which is good enough for
// chunking and retrieval.
type Converter struct{}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert extracts the text content of a PDF document.
func (c *Converter) Convert(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", doctrail.Errorf(doctrail.ECONVERSION, "empty PDF input")
	}

	// The pdf library requires a ReadSeeker with a known size, so the
	// content goes through a temp file.
	tmp, err := os.CreateTemp("", "doctrail-pdf-*.pdf")
	if err != nil {
		return "", doctrail.Errorf(doctrail.ECONVERSION, "create temp file: %v", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return "", doctrail.Errorf(doctrail.ECONVERSION, "write temp file: %v", err)
	}
	tmp.Close()

	text, err := extractText(tmpPath)
	if err != nil {
		return "", doctrail.Errorf(doctrail.ECONVERSION, "extract PDF text: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", doctrail.Errorf(doctrail.ECONVERSION, "PDF contains no extractable text")
	}

	return text, nil
}

// extractText concatenates the plain text of every page, separated by
// blank lines.
func extractText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}
