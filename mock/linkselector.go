package mock

import (
	"context"

	"github.com/fwojciec/docchat"
)

var _ docchat.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of docchat.LinkSelector.
type LinkSelector struct {
	ExtractLinksFn func(html string, baseURL string) ([]docchat.DiscoveredLink, error)
	NameFn         func() string
}

func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]docchat.DiscoveredLink, error) {
	return s.ExtractLinksFn(html, baseURL)
}

func (s *LinkSelector) Name() string {
	return s.NameFn()
}

var _ docchat.FrameworkDetector = (*FrameworkDetector)(nil)

// FrameworkDetector is a mock implementation of docchat.FrameworkDetector.
type FrameworkDetector struct {
	DetectFn func(html string) docchat.Framework
}

func (d *FrameworkDetector) Detect(html string) docchat.Framework {
	return d.DetectFn(html)
}

var _ docchat.LinkSelectorRegistry = (*LinkSelectorRegistry)(nil)

// LinkSelectorRegistry is a mock implementation of docchat.LinkSelectorRegistry.
type LinkSelectorRegistry struct {
	GetForHTMLFn func(html string) docchat.LinkSelector
}

func (r *LinkSelectorRegistry) GetForHTML(html string) docchat.LinkSelector {
	return r.GetForHTMLFn(html)
}

var _ docchat.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of docchat.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ docchat.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of docchat.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *docchat.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *docchat.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
