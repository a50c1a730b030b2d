package mock

import (
	"context"

	"github.com/doctrail/doctrail"
)

var _ doctrail.PageFetcher = (*PageFetcher)(nil)

// PageFetcher is a mock implementation of doctrail.PageFetcher.
type PageFetcher struct {
	FetchFn        func(ctx context.Context, url string) ([]byte, error)
	ExtractLinksFn func(ctx context.Context, url string) ([]string, error)
}

func (f *PageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.FetchFn(ctx, url)
}

func (f *PageFetcher) ExtractLinks(ctx context.Context, url string) ([]string, error) {
	return f.ExtractLinksFn(ctx, url)
}

var _ doctrail.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of doctrail.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ doctrail.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of doctrail.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *doctrail.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *doctrail.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
