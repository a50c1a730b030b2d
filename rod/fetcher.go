package rod

import (
	"context"
	"io"
	"net/url"

	"github.com/doctrail/doctrail"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements doctrail.PageFetcher at compile time.
var _ doctrail.PageFetcher = (*Fetcher)(nil)

// Fetcher renders pages in headless Chrome. Fetch returns the page
// printed to PDF, which preserves the rendered layout of sites that
// build their content with JavaScript. Fetcher is safe for concurrent
// use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
}

// NewFetcher creates a Fetcher backed by a managed headless Chrome
// browser. Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...ManagerOption) (*Fetcher, error) {
	manager, err := NewBrowserManager(opts...)
	if err != nil {
		return nil, err
	}
	return &Fetcher{manager: manager}, nil
}

// Fetch navigates to the URL, waits for the page to load and returns the
// page printed to PDF.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	page, err := f.openPage(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	reader, err := page.PDF(&proto.PagePrintToPDF{})
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	f.manager.IncrementPageCount()
	return data, nil
}

// ExtractLinks navigates to the URL and returns the absolute URLs of all
// same-host links in the rendered DOM. The browser resolves relative
// hrefs, so links injected by JavaScript are included.
func (f *Fetcher) ExtractLinks(ctx context.Context, rawURL string) ([]string, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, doctrail.Errorf(doctrail.EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	page, err := f.openPage(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	elements, err := page.Elements("a[href]")
	if err != nil {
		return nil, err
	}

	var links []string
	seen := make(map[string]bool)
	for _, el := range elements {
		prop, err := el.Property("href")
		if err != nil {
			continue
		}
		link, err := url.Parse(prop.String())
		if err != nil {
			continue
		}
		if link.Scheme != "http" && link.Scheme != "https" {
			continue
		}
		if link.Host != base.Host {
			continue
		}
		link.Fragment = ""
		abs := link.String()
		if seen[abs] {
			continue
		}
		seen[abs] = true
		links = append(links, abs)
	}

	f.manager.IncrementPageCount()
	return links, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// openPage creates a page bound to ctx, navigates to the URL and waits
// for the load event.
func (f *Fetcher) openPage(ctx context.Context, rawURL string) (*rod.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}

	page = page.Context(ctx)

	if err := page.Navigate(rawURL); err != nil {
		page.Close()
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		page.Close()
		return nil, err
	}

	return page, nil
}
