package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/docqa"
)

// Ensure SitemapService implements docqa.SitemapService.
var _ docqa.SitemapService = (*SitemapService)(nil)

// SitemapService lists page URLs from sitemaps over HTTP.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, a client with DefaultFetchTimeout is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &SitemapService{client: client}
}

// ListURLs returns the page URLs of a sitemap in document order.
//
// A URL whose path ends in .xml is read as a sitemap. Any other URL is a
// site base URL: sitemaps are taken from robots.txt, falling back to
// /sitemap.xml, and only pages under the base path are kept. A site with
// no sitemap yields an empty list.
func (s *SitemapService) ListURLs(ctx context.Context, sitemapURL string, filter *docqa.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u, err := url.Parse(sitemapURL)
	if err != nil || u.Host == "" {
		return nil, docqa.Errorf(docqa.EINVALID, "invalid sitemap URL %q", sitemapURL)
	}

	var sources []string
	var pathPrefix string
	if isSitemapDocument(u) {
		sources = []string{sitemapURL}
	} else {
		pathPrefix = strings.TrimSuffix(u.Path, "/")
		root := *u
		root.Path, root.RawQuery, root.Fragment = "", "", ""
		sources, err = s.findSitemaps(ctx, &root)
		if err != nil {
			return nil, err
		}
	}

	w := &walker{svc: s, seenSitemaps: make(map[string]bool), seenPages: make(map[string]bool)}
	for _, src := range sources {
		if err := w.walk(ctx, src); err != nil {
			return nil, err
		}
	}

	urls := make([]string, 0, len(w.pages))
	for _, page := range w.pages {
		if pathPrefix != "" && !matchesPathPrefix(page, pathPrefix) {
			continue
		}
		if !filter.Match(page) {
			continue
		}
		urls = append(urls, page)
	}
	return urls, nil
}

func isSitemapDocument(u *url.URL) bool {
	return strings.HasSuffix(strings.ToLower(u.Path), ".xml")
}

// walker accumulates page URLs across a tree of sitemaps, visiting each
// sitemap and page at most once.
type walker struct {
	svc          *SitemapService
	seenSitemaps map[string]bool
	seenPages    map[string]bool
	pages        []string
}

func (w *walker) walk(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.seenSitemaps[sitemapURL] {
		return nil
	}
	w.seenSitemaps[sitemapURL] = true

	body, err := w.svc.get(ctx, sitemapURL)
	if err != nil {
		return fmt.Errorf("fetch sitemap: %w", err)
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return docqa.Errorf(docqa.EINVALID, "parse sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return docqa.Errorf(docqa.EINVALID, "empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		for _, child := range locs(root, "sitemap") {
			if err := w.walk(ctx, child); err != nil {
				return err
			}
		}
		return nil
	}

	for _, page := range locs(root, "url") {
		if w.seenPages[page] {
			continue
		}
		w.seenPages[page] = true
		w.pages = append(w.pages, page)
	}
	return nil
}

// locs returns the trimmed, non-empty <loc> values of the named children.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if v := strings.TrimSpace(loc.Text()); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// matchesPathPrefix reports whether rawURL's path is prefix or lies below
// it. /docs matches /docs and /docs/intro but not /documentation.
func matchesPathPrefix(rawURL, prefix string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.TrimSuffix(parsed.Path, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// findSitemaps reads Sitemap: directives from robots.txt, falling back to
// /sitemap.xml when it exists.
func (s *SitemapService) findSitemaps(ctx context.Context, root *url.URL) ([]string, error) {
	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"})
	if sitemaps, err := s.robotsSitemaps(ctx, robotsURL.String()); err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	ok, err := s.exists(ctx, fallback)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if ok {
		return []string{fallback}, nil
	}
	return nil, nil
}

func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	const directive = "sitemap:"
	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) > len(directive) && strings.EqualFold(line[:len(directive)], directive) {
			if v := strings.TrimSpace(line[len(directive):]); v != "" {
				sitemaps = append(sitemaps, v)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return sitemaps, nil
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}

func (s *SitemapService) exists(ctx context.Context, target string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
