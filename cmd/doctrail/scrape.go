package main

import (
	"fmt"
	"regexp"

	"github.com/doctrail/doctrail"
	"github.com/doctrail/doctrail/pipeline"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	filter, err := buildFilter(c.Filter, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doctrail.ErrorMessage(err))
		return err
	}

	result, err := deps.Scraper.Scrape(deps.Ctx, pipeline.ScrapeRequest{
		SiteName:     c.Name,
		SiteURL:      c.URL,
		Filter:       filter,
		PersistLinks: c.Links,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doctrail.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Scraped %q: %d links, %d nodes, %d edges, %d documents fetched\n",
		c.Name, len(result.Links), result.NodesCreated, result.EdgesCreated, result.Fetched)

	if result.EdgesSkipped > 0 {
		fmt.Fprintf(deps.Stdout, "%d edges skipped (missing endpoint)\n", result.EdgesSkipped)
	}
	for _, failure := range result.Failures {
		fmt.Fprintf(deps.Stderr, "failed to fetch %s: %s\n", failure.URL, failure.Err)
	}
	if len(result.Failures) > 0 {
		return doctrail.Errorf(doctrail.EINTERNAL, "%d of %d documents failed",
			len(result.Failures), len(result.Failures)+result.Fetched)
	}

	return nil
}

// buildFilter compiles include/exclude patterns into a URLFilter.
// Returns nil when no patterns are given.
func buildFilter(include, exclude []string) (*doctrail.URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}

	filter := &doctrail.URLFilter{}
	for _, pattern := range include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, doctrail.Errorf(doctrail.EINVALID, "invalid filter pattern %q: %v", pattern, err)
		}
		filter.Include = append(filter.Include, re)
	}
	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, doctrail.Errorf(doctrail.EINVALID, "invalid exclude pattern %q: %v", pattern, err)
		}
		filter.Exclude = append(filter.Exclude, re)
	}
	return filter, nil
}
