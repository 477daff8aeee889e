package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/fwojciec/docchat"
	dchttp "github.com/fwojciec/docchat/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSite serves the given paths, replacing {{BASE}} with the server URL.
func newSite(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "{{BASE}}", srv.URL)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const urlset = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/docs/intro</loc></url>
  <url><loc>{{BASE}}/docs/guide</loc></url>
  <url><loc>{{BASE}}/docs/intro</loc></url>
  <url><loc>{{BASE}}/blog/launch</loc></url>
</urlset>`

func TestSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("reads sitemaps listed in robots.txt", func(t *testing.T) {
		t.Parallel()
		srv := newSite(t, map[string]string{
			"/robots.txt":   "User-agent: *\nDisallow: /private/\nSITEMAP: {{BASE}}/docs-map.xml\n",
			"/docs-map.xml": urlset,
		})

		urls, err := dchttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/intro", srv.URL + "/docs/guide", srv.URL + "/blog/launch"}, urls)
	})

	t.Run("falls back to sitemap.xml", func(t *testing.T) {
		t.Parallel()
		srv := newSite(t, map[string]string{"/sitemap.xml": urlset})

		urls, err := dchttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Len(t, urls, 3)
	})

	t.Run("follows sitemap indexes", func(t *testing.T) {
		t.Parallel()
		srv := newSite(t, map[string]string{
			"/sitemap.xml": `<?xml version="1.0"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/sitemap-docs.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap.xml</loc></sitemap>
</sitemapindex>`,
			"/sitemap-docs.xml": urlset,
		})

		urls, err := dchttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Len(t, urls, 3)
	})

	t.Run("limits results to the base path", func(t *testing.T) {
		t.Parallel()
		srv := newSite(t, map[string]string{"/sitemap.xml": urlset})

		urls, err := dchttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL+"/docs", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/intro", srv.URL + "/docs/guide"}, urls)
	})

	t.Run("applies filter", func(t *testing.T) {
		t.Parallel()
		srv := newSite(t, map[string]string{"/sitemap.xml": urlset})
		filter := &docchat.URLFilter{Exclude: []*regexp.Regexp{regexp.MustCompile(`/guide$`)}}

		urls, err := dchttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL+"/docs/", filter)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/intro"}, urls)
	})

	t.Run("returns empty slice without sitemaps", func(t *testing.T) {
		t.Parallel()
		srv := newSite(t, map[string]string{})

		urls, err := dchttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.NotNil(t, urls)
		assert.Empty(t, urls)
	})

	t.Run("rejects malformed XML", func(t *testing.T) {
		t.Parallel()
		srv := newSite(t, map[string]string{"/sitemap.xml": "<urlset><url>"})

		_, err := dchttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		assert.Equal(t, docchat.EINVALID, docchat.ErrorCode(err))
	})
}
