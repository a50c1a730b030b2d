// Package pipeline orchestrates the document processing stages: scraping
// sites into the lineage graph, parsing raw documents to markdown and
// embedding parsed documents into the similarity index.
package pipeline

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/doctrail/doctrail"
	"github.com/doctrail/doctrail/bloom"
)

// DefaultDocExt is the file extension for raw documents when none is
// configured. Browser-backed fetchers produce PDF renditions, so .pdf is
// the default.
const DefaultDocExt = ".pdf"

// expectedLinksPerSite sizes the dedup filter for one scrape run.
const expectedLinksPerSite = 100000

// Scraper discovers a site's pages, persists the lineage graph derived
// from their URLs and stores the raw content of every leaf page.
type Scraper struct {
	Lineage doctrail.LineageService
	Fetcher doctrail.PageFetcher
	Store   doctrail.DocumentStore

	// Sitemaps, when set, is tried before link extraction.
	Sitemaps doctrail.SitemapService

	// Limiter, when set, throttles fetches per domain.
	Limiter doctrail.DomainLimiter

	// StorageRoot is the base directory for stored documents.
	StorageRoot string

	// DocExt is the extension for raw document files.
	// Defaults to DefaultDocExt.
	DocExt string
}

// ScrapeRequest describes one scrape run.
type ScrapeRequest struct {
	// SiteName identifies the site in the lineage graph.
	SiteName string

	// SiteURL is the seed URL for link discovery.
	SiteURL string

	// Filter restricts which discovered URLs are scraped.
	Filter *doctrail.URLFilter

	// PersistLinks writes the discovered URLs to a links.txt file next
	// to the raw documents.
	PersistLinks bool
}

// LeafFailure records a leaf whose content could not be fetched or
// stored. A failed leaf keeps its place in the lineage graph.
type LeafFailure struct {
	NodeID string
	URL    string
	Err    error
}

// ScrapeResult summarizes one scrape run.
type ScrapeResult struct {
	Links        []string
	NodesCreated int
	EdgesCreated int
	EdgesSkipped int
	Fetched      int
	Failures     []LeafFailure
}

// Scrape runs the full scrape flow for one site: discover links, build
// and persist the lineage tree, then fetch and store every leaf page.
// Individual leaf failures are recorded in the result and do not stop
// the run.
func (s *Scraper) Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResult, error) {
	if req.SiteName == "" {
		return nil, doctrail.Errorf(doctrail.EINVALID, "site name required")
	}
	if req.SiteURL == "" {
		return nil, doctrail.Errorf(doctrail.EINVALID, "site URL required")
	}

	links, err := s.discoverLinks(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &ScrapeResult{Links: links}

	if req.PersistLinks {
		path := filepath.Join(s.StorageRoot, "docs", req.SiteName, "links.txt")
		if _, err := s.Store.Write(path, []byte(strings.Join(links, "\n")+"\n")); err != nil {
			return nil, err
		}
	}

	tree, err := doctrail.BuildTree(req.SiteName, links)
	if err != nil {
		return nil, err
	}

	if err := s.persistTree(ctx, tree, result); err != nil {
		return nil, err
	}

	if err := s.fetchLeaves(ctx, req.SiteName, result); err != nil {
		return nil, err
	}

	return result, nil
}

// discoverLinks finds the URLs to scrape, trying the sitemap service
// first and falling back to link extraction from the seed page.
func (s *Scraper) discoverLinks(ctx context.Context, req ScrapeRequest) ([]string, error) {
	var links []string

	if s.Sitemaps != nil {
		urls, err := s.Sitemaps.DiscoverURLs(ctx, req.SiteURL, req.Filter)
		if err != nil {
			return nil, err
		}
		links = urls
	}

	if len(links) == 0 {
		urls, err := s.Fetcher.ExtractLinks(ctx, req.SiteURL)
		if err != nil {
			return nil, err
		}
		for _, u := range urls {
			if req.Filter.Match(u) {
				links = append(links, u)
			}
		}
	}

	// Dedup across sitemap indexes and repeated anchors.
	seen := bloom.NewFilter(expectedLinksPerSite, 0.001)
	var unique []string
	for _, link := range links {
		if seen.Seen(link) {
			continue
		}
		unique = append(unique, link)
	}

	return unique, nil
}

// persistTree writes the tree's nodes and edges to the lineage store in
// pre-order, parents before children.
func (s *Scraper) persistTree(ctx context.Context, tree *doctrail.DocumentTree, result *ScrapeResult) error {
	return tree.Walk(func(n *doctrail.TreeNode) error {
		if err := s.Lineage.CreateNode(ctx, n.Node); err != nil {
			return err
		}
		result.NodesCreated++

		if n.Parent == nil {
			return nil
		}

		outcome, err := s.Lineage.CreateRelationship(ctx, &doctrail.DocumentRelationship{
			StartDocumentID: n.Parent.Node.ID,
			EndDocumentID:   n.Node.ID,
		})
		if err != nil {
			return err
		}
		switch outcome {
		case doctrail.RelationshipCreated:
			result.EdgesCreated++
		case doctrail.RelationshipSkippedMissingEndpoint:
			result.EdgesSkipped++
		}
		return nil
	})
}

// fetchLeaves downloads and stores the raw content of every leaf of the
// site, recording the storage path on each node before fetching so a
// failed fetch can be retried against a known location.
func (s *Scraper) fetchLeaves(ctx context.Context, siteName string, result *ScrapeResult) error {
	leaves, err := s.Lineage.FindLeavesBySite(ctx, siteName)
	if err != nil {
		return err
	}

	ext := s.DocExt
	if ext == "" {
		ext = DefaultDocExt
	}

	for _, leaf := range leaves {
		leafPath, err := s.Lineage.LeafPath(ctx, leaf.ID)
		if err != nil {
			return err
		}

		leaf.StoragePath = filepath.Join(s.StorageRoot, "docs", siteName, leafPath+ext)
		if err := s.Lineage.UpdateNode(ctx, leaf); err != nil {
			return err
		}

		if s.Limiter != nil {
			if err := s.Limiter.Wait(ctx, domainOf(leaf.URL)); err != nil {
				return err
			}
		}

		data, err := s.Fetcher.Fetch(ctx, leaf.URL)
		if err != nil {
			result.Failures = append(result.Failures, LeafFailure{NodeID: leaf.ID, URL: leaf.URL, Err: err})
			continue
		}

		if _, err := s.Store.Write(leaf.StoragePath, data); err != nil {
			result.Failures = append(result.Failures, LeafFailure{NodeID: leaf.ID, URL: leaf.URL, Err: err})
			continue
		}

		result.Fetched++
	}

	return nil
}

// domainOf returns the host of a URL, or the URL itself if it cannot be
// parsed.
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
