package main

import (
	"fmt"

	"github.com/doctrail/doctrail"
)

// Run executes the embed command.
func (c *EmbedCmd) Run(deps *Dependencies) error {
	if c.ID != "" {
		n, err := deps.Embedder.Embed(deps.Ctx, c.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", doctrail.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Indexed %d chunks for node %s\n", n, c.ID)
		return nil
	}

	if c.Site == "" {
		return doctrail.Errorf(doctrail.EINVALID, "a site name or --id is required")
	}

	result, err := deps.Embedder.EmbedSite(deps.Ctx, c.Site)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doctrail.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d chunks from %d documents for %q\n",
		result.Chunks, result.Embedded, c.Site)
	for _, failure := range result.Failures {
		fmt.Fprintf(deps.Stderr, "failed to embed node %s (%s): %s\n",
			failure.NodeID, failure.URL, doctrail.ErrorMessage(failure.Err))
	}
	if len(result.Failures) > 0 {
		return doctrail.Errorf(doctrail.EINTERNAL, "%d of %d documents failed",
			len(result.Failures), len(result.Failures)+result.Embedded)
	}

	return nil
}
