package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	doctrailhttp "github.com/doctrail/doctrail/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns raw page bytes", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body>hello</body></html>"))
		}))
		defer srv.Close()

		f := doctrailhttp.NewFetcher()
		defer f.Close()

		body, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, []byte("<html><body>hello</body></html>"), body)
	})

	t.Run("returns error for non-200 status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		f := doctrailhttp.NewFetcher()
		defer f.Close()

		_, err := f.Fetch(context.Background(), srv.URL+"/missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		f := doctrailhttp.NewFetcher()
		defer f.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.Fetch(ctx, srv.URL)
		require.Error(t, err)
	})
}

func TestFetcher_ExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative links and drops off-host ones", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html><body>
				<a href="/docs/intro">Intro</a>
				<a href="guides/setup">Setup</a>
				<a href="https://other.example.com/page">External</a>
				<a href="#section">Anchor</a>
				<a href="mailto:team@example.com">Mail</a>
			</body></html>`))
		}))
		defer srv.Close()

		f := doctrailhttp.NewFetcher()
		defer f.Close()

		links, err := f.ExtractLinks(context.Background(), srv.URL+"/docs/")
		require.NoError(t, err)
		assert.Equal(t, []string{
			srv.URL + "/docs/intro",
			srv.URL + "/docs/guides/setup",
		}, links)
	})

	t.Run("deduplicates links that differ only by fragment", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html><body>
				<a href="/page#one">One</a>
				<a href="/page#two">Two</a>
			</body></html>`))
		}))
		defer srv.Close()

		f := doctrailhttp.NewFetcher()
		defer f.Close()

		links, err := f.ExtractLinks(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/page"}, links)
	})

	t.Run("returns no links for a page without anchors", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body><p>plain</p></body></html>"))
		}))
		defer srv.Close()

		f := doctrailhttp.NewFetcher()
		defer f.Close()

		links, err := f.ExtractLinks(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Empty(t, links)
	})
}
