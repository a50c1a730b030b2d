package pipeline_test

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/doctrail/doctrail"
	"github.com/doctrail/doctrail/mock"
	"github.com/doctrail/doctrail/pipeline"
	"github.com/doctrail/doctrail/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory doctrail.DocumentStore for scraper tests.
type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (s *memStore) Write(path string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return "hash", nil
}

func (s *memStore) Read(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, doctrail.Errorf(doctrail.ENOTFOUND, "no document at %q", path)
	}
	return data, nil
}

func setupLineage(t *testing.T) *sqlite.LineageService {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewLineageService(db)
}

func TestScraper_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("persists tree and stores leaf content", func(t *testing.T) {
		t.Parallel()

		lineage := setupLineage(t)
		store := newMemStore()
		fetcher := &mock.PageFetcher{
			ExtractLinksFn: func(ctx context.Context, url string) ([]string, error) {
				return []string{
					"https://x.io/a/b",
					"https://x.io/a/c",
					"https://x.io/a/b", // duplicate, dropped by dedup
				}, nil
			},
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				return []byte("content of " + url), nil
			},
		}

		scraper := &pipeline.Scraper{
			Lineage:     lineage,
			Fetcher:     fetcher,
			Store:       store,
			StorageRoot: "/data",
		}

		result, err := scraper.Scrape(context.Background(), pipeline.ScrapeRequest{
			SiteName: "x",
			SiteURL:  "https://x.io/",
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"https://x.io/a/b", "https://x.io/a/c"}, result.Links)
		assert.Equal(t, 4, result.NodesCreated, "root, a, b, c")
		assert.Equal(t, 3, result.EdgesCreated)
		assert.Zero(t, result.EdgesSkipped)
		assert.Equal(t, 2, result.Fetched)
		assert.Empty(t, result.Failures)

		assert.Equal(t, []byte("content of https://x.io/a/b"), store.files["/data/docs/x/a/b.pdf"])
		assert.Equal(t, []byte("content of https://x.io/a/c"), store.files["/data/docs/x/a/c.pdf"])

		// Leaf nodes record where their raw content lives
		leaves, err := lineage.FindLeavesBySite(context.Background(), "x")
		require.NoError(t, err)
		require.Len(t, leaves, 2)
		assert.Equal(t, "/data/docs/x/a/b.pdf", leaves[0].StoragePath)
		assert.Equal(t, "/data/docs/x/a/c.pdf", leaves[1].StoragePath)
	})

	t.Run("prefers sitemap discovery over link extraction", func(t *testing.T) {
		t.Parallel()

		lineage := setupLineage(t)
		fetcher := &mock.PageFetcher{
			ExtractLinksFn: func(ctx context.Context, url string) ([]string, error) {
				t.Fatal("ExtractLinks should not be called when the sitemap has URLs")
				return nil, nil
			},
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				return []byte("data"), nil
			},
		}
		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *doctrail.URLFilter) ([]string, error) {
				return []string{"https://x.io/docs/page"}, nil
			},
		}

		scraper := &pipeline.Scraper{
			Lineage:     lineage,
			Fetcher:     fetcher,
			Store:       newMemStore(),
			Sitemaps:    sitemaps,
			StorageRoot: "/data",
		}

		result, err := scraper.Scrape(context.Background(), pipeline.ScrapeRequest{
			SiteName: "x",
			SiteURL:  "https://x.io/",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://x.io/docs/page"}, result.Links)
	})

	t.Run("falls back to link extraction when sitemap is empty", func(t *testing.T) {
		t.Parallel()

		lineage := setupLineage(t)
		fetcher := &mock.PageFetcher{
			ExtractLinksFn: func(ctx context.Context, url string) ([]string, error) {
				return []string{"https://x.io/page"}, nil
			},
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				return []byte("data"), nil
			},
		}
		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *doctrail.URLFilter) ([]string, error) {
				return []string{}, nil
			},
		}

		scraper := &pipeline.Scraper{
			Lineage:     lineage,
			Fetcher:     fetcher,
			Store:       newMemStore(),
			Sitemaps:    sitemaps,
			StorageRoot: "/data",
		}

		result, err := scraper.Scrape(context.Background(), pipeline.ScrapeRequest{
			SiteName: "x",
			SiteURL:  "https://x.io/",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://x.io/page"}, result.Links)
	})

	t.Run("records fetch failures and continues", func(t *testing.T) {
		t.Parallel()

		lineage := setupLineage(t)
		store := newMemStore()
		fetcher := &mock.PageFetcher{
			ExtractLinksFn: func(ctx context.Context, url string) ([]string, error) {
				return []string{"https://x.io/a/b", "https://x.io/a/c"}, nil
			},
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				if strings.HasSuffix(url, "/b") {
					return nil, doctrail.Errorf(doctrail.EINTERNAL, "connection reset")
				}
				return []byte("ok"), nil
			},
		}

		scraper := &pipeline.Scraper{
			Lineage:     lineage,
			Fetcher:     fetcher,
			Store:       store,
			StorageRoot: "/data",
		}

		result, err := scraper.Scrape(context.Background(), pipeline.ScrapeRequest{
			SiteName: "x",
			SiteURL:  "https://x.io/",
		})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Fetched)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, "https://x.io/a/b", result.Failures[0].URL)

		// The failed leaf still has its storage path reserved
		leaves, err := lineage.FindLeavesBySite(context.Background(), "x")
		require.NoError(t, err)
		for _, leaf := range leaves {
			assert.NotEmpty(t, leaf.StoragePath)
		}
	})

	t.Run("writes links file when requested", func(t *testing.T) {
		t.Parallel()

		lineage := setupLineage(t)
		store := newMemStore()
		fetcher := &mock.PageFetcher{
			ExtractLinksFn: func(ctx context.Context, url string) ([]string, error) {
				return []string{"https://x.io/a", "https://x.io/b"}, nil
			},
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				return []byte("data"), nil
			},
		}

		scraper := &pipeline.Scraper{
			Lineage:     lineage,
			Fetcher:     fetcher,
			Store:       store,
			StorageRoot: "/data",
		}

		_, err := scraper.Scrape(context.Background(), pipeline.ScrapeRequest{
			SiteName:     "x",
			SiteURL:      "https://x.io/",
			PersistLinks: true,
		})
		require.NoError(t, err)

		assert.Equal(t, "https://x.io/a\nhttps://x.io/b\n", string(store.files["/data/docs/x/links.txt"]))
	})

	t.Run("waits on the limiter before each fetch", func(t *testing.T) {
		t.Parallel()

		lineage := setupLineage(t)
		var waited []string
		limiter := &mock.DomainLimiter{
			WaitFn: func(ctx context.Context, domain string) error {
				waited = append(waited, domain)
				return nil
			},
		}
		fetcher := &mock.PageFetcher{
			ExtractLinksFn: func(ctx context.Context, url string) ([]string, error) {
				return []string{"https://x.io/a/b", "https://x.io/a/c"}, nil
			},
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				return []byte("data"), nil
			},
		}

		scraper := &pipeline.Scraper{
			Lineage:     lineage,
			Fetcher:     fetcher,
			Store:       newMemStore(),
			Limiter:     limiter,
			StorageRoot: "/data",
		}

		_, err := scraper.Scrape(context.Background(), pipeline.ScrapeRequest{
			SiteName: "x",
			SiteURL:  "https://x.io/",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"x.io", "x.io"}, waited)
	})

	t.Run("applies the URL filter to extracted links", func(t *testing.T) {
		t.Parallel()

		lineage := setupLineage(t)
		fetcher := &mock.PageFetcher{
			ExtractLinksFn: func(ctx context.Context, url string) ([]string, error) {
				return []string{"https://x.io/docs/keep", "https://x.io/blog/drop"}, nil
			},
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				return []byte("data"), nil
			},
		}

		scraper := &pipeline.Scraper{
			Lineage:     lineage,
			Fetcher:     fetcher,
			Store:       newMemStore(),
			StorageRoot: "/data",
		}

		result, err := scraper.Scrape(context.Background(), pipeline.ScrapeRequest{
			SiteName: "x",
			SiteURL:  "https://x.io/",
			Filter: &doctrail.URLFilter{
				Include: []*regexp.Regexp{regexp.MustCompile(`/docs/`)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://x.io/docs/keep"}, result.Links)
	})

	t.Run("rejects missing site name", func(t *testing.T) {
		t.Parallel()

		scraper := &pipeline.Scraper{}

		_, err := scraper.Scrape(context.Background(), pipeline.ScrapeRequest{SiteURL: "https://x.io/"})
		require.Error(t, err)
		assert.Equal(t, doctrail.EINVALID, doctrail.ErrorCode(err))
	})
}
