package main

import (
	"bytes"
	"fmt"

	"github.com/doctrail/doctrail"
	"github.com/doctrail/doctrail/pdf"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	if c.ID != "" {
		if _, err := deps.Parser.Parse(deps.Ctx, c.ID); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", doctrail.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Parsed node %s\n", c.ID)
		return nil
	}

	if c.Site == "" {
		return doctrail.Errorf(doctrail.EINVALID, "a site name or --id is required")
	}

	result, err := deps.Parser.ParseSite(deps.Ctx, c.Site)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doctrail.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Parsed %d documents for %q\n", result.Parsed, c.Site)
	for _, failure := range result.Failures {
		fmt.Fprintf(deps.Stderr, "failed to parse node %s (%s): %s\n",
			failure.NodeID, failure.URL, doctrail.ErrorMessage(failure.Err))
	}
	if len(result.Failures) > 0 {
		return doctrail.Errorf(doctrail.EINTERNAL, "%d of %d documents failed",
			len(result.Failures), len(result.Failures)+result.Parsed)
	}

	return nil
}

// autoConverter routes raw documents to the right converter by content:
// PDF renditions from the browser fetcher go through text extraction,
// anything else is treated as HTML.
type autoConverter struct {
	pdf  doctrail.Converter
	html doctrail.Converter
}

func newAutoConverter(html doctrail.Converter) *autoConverter {
	return &autoConverter{
		pdf:  pdf.NewConverter(),
		html: html,
	}
}

func (c *autoConverter) Convert(raw []byte) (string, error) {
	if bytes.HasPrefix(raw, []byte("%PDF")) {
		return c.pdf.Convert(raw)
	}
	return c.html.Convert(raw)
}
