package mock

import (
	"context"

	"github.com/fwojciec/docqa"
)

var _ docqa.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of docqa.SitemapService.
type SitemapService struct {
	ListURLsFn func(ctx context.Context, sitemapURL string, filter *docqa.URLFilter) ([]string, error)
}

func (s *SitemapService) ListURLs(ctx context.Context, sitemapURL string, filter *docqa.URLFilter) ([]string, error) {
	return s.ListURLsFn(ctx, sitemapURL, filter)
}
