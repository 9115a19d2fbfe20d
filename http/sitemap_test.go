package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/fwojciec/docqa"
	docqahttp "github.com/fwojciec/docqa/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService_ListURLs_DirectSitemap(t *testing.T) {
	t.Parallel()

	t.Run("returns URLs in sitemap order", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/docs-sitemap.xml": `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/docs/c</loc></url>
  <url><loc>{{BASE}}/docs/a</loc></url>
  <url><loc> {{BASE}}/docs/b </loc></url>
  <url><loc>{{BASE}}/docs/a</loc></url>
  <url><lastmod>2024-01-01</lastmod></url>
</urlset>`,
		})
		defer srv.Close()

		svc := docqahttp.NewSitemapService(srv.Client())
		urls, err := svc.ListURLs(context.Background(), srv.URL+"/docs-sitemap.xml", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/c", srv.URL + "/docs/a", srv.URL + "/docs/b"}, urls)
	})

	t.Run("follows sitemap index", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/index.xml": `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/sitemap-docs.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-api.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/index.xml</loc></sitemap>
</sitemapindex>`,
			"/sitemap-docs.xml": `<urlset><url><loc>{{BASE}}/docs/intro</loc></url></urlset>`,
			"/sitemap-api.xml":  `<urlset><url><loc>{{BASE}}/api/reference</loc></url></urlset>`,
		})
		defer srv.Close()

		svc := docqahttp.NewSitemapService(srv.Client())
		urls, err := svc.ListURLs(context.Background(), srv.URL+"/index.xml", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/intro", srv.URL + "/api/reference"}, urls)
	})

	t.Run("fails when sitemap is unreachable", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})
		defer srv.Close()

		svc := docqahttp.NewSitemapService(srv.Client())
		_, err := svc.ListURLs(context.Background(), srv.URL+"/sitemap.xml", nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("fails on malformed XML", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `not xml at all <<<`,
		})
		defer srv.Close()

		svc := docqahttp.NewSitemapService(srv.Client())
		_, err := svc.ListURLs(context.Background(), srv.URL+"/sitemap.xml", nil)

		require.Error(t, err)
		assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
	})

	t.Run("rejects invalid URL", func(t *testing.T) {
		t.Parallel()

		svc := docqahttp.NewSitemapService(nil)
		_, err := svc.ListURLs(context.Background(), "not a url", nil)

		require.Error(t, err)
		assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
	})
}

func TestSitemapService_ListURLs_FromRobotsTxt(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{
		"/robots.txt": `User-agent: *
Disallow: /private/
Sitemap: {{BASE}}/sitemap1.xml
sitemap: {{BASE}}/sitemap2.xml
`,
		"/sitemap1.xml": `<urlset><url><loc>{{BASE}}/page1</loc></url></urlset>`,
		"/sitemap2.xml": `<urlset><url><loc>{{BASE}}/page2</loc></url></urlset>`,
	})
	defer srv.Close()

	svc := docqahttp.NewSitemapService(srv.Client())
	urls, err := svc.ListURLs(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/page1", srv.URL + "/page2"}, urls)
}

func TestSitemapService_ListURLs_FallbackToSitemapXML(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": `<urlset><url><loc>{{BASE}}/page1</loc></url></urlset>`,
	})
	defer srv.Close()

	svc := docqahttp.NewSitemapService(srv.Client())
	urls, err := svc.ListURLs(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/page1"}, urls)
}

func TestSitemapService_ListURLs_BasePathPrefix(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": `<urlset>
  <url><loc>{{BASE}}/docs</loc></url>
  <url><loc>{{BASE}}/docs/intro</loc></url>
  <url><loc>{{BASE}}/documentation</loc></url>
  <url><loc>{{BASE}}/blog</loc></url>
</urlset>`,
	})
	defer srv.Close()

	svc := docqahttp.NewSitemapService(srv.Client())
	urls, err := svc.ListURLs(context.Background(), srv.URL+"/docs/", nil)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/docs", srv.URL + "/docs/intro"}, urls)
}

func TestSitemapService_ListURLs_NoSitemapFound(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{})
	defer srv.Close()

	svc := docqahttp.NewSitemapService(srv.Client())
	urls, err := svc.ListURLs(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestSitemapService_ListURLs_Filters(t *testing.T) {
	t.Parallel()

	content := map[string]string{
		"/sitemap.xml": `<urlset>
  <url><loc>{{BASE}}/docs/intro</loc></url>
  <url><loc>{{BASE}}/blog/post1</loc></url>
  <url><loc>{{BASE}}/docs/internal/debug</loc></url>
  <url><loc>{{BASE}}/docs/guide</loc></url>
</urlset>`,
	}

	t.Run("include", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, content)
		defer srv.Close()

		filter := &docqa.URLFilter{Include: []*regexp.Regexp{regexp.MustCompile(`/docs/`)}}
		svc := docqahttp.NewSitemapService(srv.Client())
		urls, err := svc.ListURLs(context.Background(), srv.URL+"/sitemap.xml", filter)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/intro", srv.URL + "/docs/internal/debug", srv.URL + "/docs/guide"}, urls)
	})

	t.Run("exclude", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, content)
		defer srv.Close()

		filter := &docqa.URLFilter{Exclude: []*regexp.Regexp{regexp.MustCompile(`/internal/|/blog/`)}}
		svc := docqahttp.NewSitemapService(srv.Client())
		urls, err := svc.ListURLs(context.Background(), srv.URL+"/sitemap.xml", filter)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/intro", srv.URL + "/docs/guide"}, urls)
	})
}

func TestSitemapService_ListURLs_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": `<urlset><url><loc>{{BASE}}/page1</loc></url></urlset>`,
	})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := docqahttp.NewSitemapService(srv.Client())
	_, err := svc.ListURLs(ctx, srv.URL+"/sitemap.xml", nil)

	require.ErrorIs(t, err, context.Canceled)
}

// newTestServer creates a test HTTP server with the given path->content mapping.
// Content strings may contain {{BASE}} which is replaced with the server URL.
func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		body = replaceBaseURL(body, srv.URL)

		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(body))
	}))

	return srv
}

func replaceBaseURL(content, baseURL string) string {
	return regexp.MustCompile(`\{\{BASE\}\}`).ReplaceAllString(content, baseURL)
}
