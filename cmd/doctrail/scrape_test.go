package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/doctrail/doctrail"
	"github.com/doctrail/doctrail/mock"
	"github.com/doctrail/doctrail/pipeline"
	"github.com/doctrail/doctrail/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScrapeDeps(t *testing.T, fetcher doctrail.PageFetcher) (*Dependencies, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { _ = db.Close() })

	lineage := sqlite.NewLineageService(db)
	store := &mock.DocumentStore{
		WriteFn: func(path string, data []byte) (string, error) {
			return "hash", nil
		},
	}

	var stdout, stderr bytes.Buffer
	deps := &Dependencies{
		Ctx:     context.Background(),
		Stdout:  &stdout,
		Stderr:  &stderr,
		Lineage: lineage,
		Store:   store,
		Scraper: &pipeline.Scraper{
			Lineage:     lineage,
			Fetcher:     fetcher,
			Store:       store,
			StorageRoot: t.TempDir(),
		},
	}
	return deps, &stdout, &stderr
}

func TestScrapeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("reports the scrape summary", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.PageFetcher{
			ExtractLinksFn: func(ctx context.Context, url string) ([]string, error) {
				return []string{"https://x.io/a/b", "https://x.io/a/c"}, nil
			},
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				return []byte("content"), nil
			},
		}
		deps, stdout, _ := setupScrapeDeps(t, fetcher)

		cmd := &ScrapeCmd{Name: "x", URL: "https://x.io/"}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "2 links")
		assert.Contains(t, stdout.String(), "4 nodes")
		assert.Contains(t, stdout.String(), "2 documents fetched")
	})

	t.Run("fails with a summary error when fetches fail", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.PageFetcher{
			ExtractLinksFn: func(ctx context.Context, url string) ([]string, error) {
				return []string{"https://x.io/a"}, nil
			},
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				return nil, doctrail.Errorf(doctrail.EINTERNAL, "boom")
			},
		}
		deps, _, stderr := setupScrapeDeps(t, fetcher)

		cmd := &ScrapeCmd{Name: "x", URL: "https://x.io/"}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "https://x.io/a")
	})

	t.Run("rejects invalid filter patterns", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := setupScrapeDeps(t, &mock.PageFetcher{})

		cmd := &ScrapeCmd{Name: "x", URL: "https://x.io/", Filter: []string{"["}}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Equal(t, doctrail.EINVALID, doctrail.ErrorCode(err))
	})
}

func TestBuildFilter(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when no patterns are given", func(t *testing.T) {
		t.Parallel()

		filter, err := buildFilter(nil, nil)
		require.NoError(t, err)
		assert.Nil(t, filter)
	})

	t.Run("compiles include and exclude patterns", func(t *testing.T) {
		t.Parallel()

		filter, err := buildFilter([]string{`/docs/`}, []string{`/archive/`})
		require.NoError(t, err)

		assert.True(t, filter.Match("https://x.io/docs/intro"))
		assert.False(t, filter.Match("https://x.io/blog/post"))
		assert.False(t, filter.Match("https://x.io/docs/archive/old"))
	})
}
