// Package crawl loads documentation sites into documents by following
// links breadth-first from a seed page.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/docchat"
	"golang.org/x/sync/errgroup"
)

var _ docchat.DocumentLoader = (*Loader)(nil)

// Frontier sizing for deduplication.
const (
	frontierExpectedURLs      = 100_000
	frontierFalsePositiveRate = 0.001
)

// DefaultConcurrency is the number of pages fetched in parallel per depth level.
const DefaultConcurrency = 4

// Loader crawls a documentation site and returns its pages as documents.
type Loader struct {
	Fetcher       docchat.Fetcher
	Extractor     docchat.Extractor
	Converter     docchat.Converter
	LinkSelectors docchat.LinkSelectorRegistry

	// Sitemaps, when set, seeds depth 1 with in-scope sitemap URLs.
	Sitemaps docchat.SitemapService

	// RateLimiter, when set, spaces out requests per host.
	RateLimiter docchat.DomainLimiter

	// Concurrency bounds parallel fetches. Zero means DefaultConcurrency.
	Concurrency int

	// RetryDelays are the waits between fetch attempts. Nil means no retries.
	RetryDelays []time.Duration

	// MaxPages bounds the pages fetched per seed. Zero means unbounded.
	MaxPages int

	Logger *slog.Logger
}

// page is the outcome of fetching one link.
type page struct {
	doc   *docchat.Document
	links []docchat.DiscoveredLink
	err   error
}

// Load crawls seedURL up to depth links deep.
func (l *Loader) Load(ctx context.Context, seedURL string, depth int) ([]*docchat.Document, error) {
	seed, err := url.Parse(seedURL)
	if err != nil || (seed.Scheme != "http" && seed.Scheme != "https") || seed.Host == "" {
		return nil, docchat.Errorf(docchat.EINVALID, "seed must be an http(s) URL: %q", seedURL)
	}
	if depth < 0 {
		return nil, docchat.Errorf(docchat.EINVALID, "depth must not be negative")
	}
	seed.Fragment = ""
	sc := newScope(seed)

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(docchat.DiscoveredLink{
		URL:      seed.String(),
		Priority: docchat.PriorityNavigation,
		Source:   "seed",
	})

	var docs []*docchat.Document
	fetched := 0
	for level := 0; level <= depth && frontier.Len() > 0; level++ {
		batch := l.nextLevel(frontier, level, &fetched)
		if len(batch) == 0 {
			break
		}

		pages := l.fetchAll(ctx, batch, level < depth)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i, p := range pages {
			if p.err != nil {
				if level == 0 {
					return nil, fmt.Errorf("loading seed %s: %w", seed, p.err)
				}
				l.logger().Warn("skipping page", "url", batch[i].URL, "err", p.err)
				continue
			}
			if p.doc != nil {
				docs = append(docs, p.doc)
			}
			for _, link := range p.links {
				if !sc.contains(link.URL) {
					continue
				}
				link.Depth = level + 1
				frontier.Push(link)
			}
		}

		if level == 0 && depth > 0 && l.Sitemaps != nil {
			l.seedFromSitemap(ctx, frontier, sc, seed)
		}
	}

	l.logger().Debug("crawl finished",
		"seed", seed.String(),
		"documents", len(docs),
		"fetched", fetched,
		"discovered", frontier.Discovered(),
	)
	return docs, nil
}

// nextLevel pops every queued link at the given depth, honoring MaxPages.
func (l *Loader) nextLevel(frontier *Frontier, level int, fetched *int) []docchat.DiscoveredLink {
	var batch []docchat.DiscoveredLink
	for {
		if l.MaxPages > 0 && *fetched >= l.MaxPages {
			return batch
		}
		next, ok := frontier.Peek()
		if !ok || next.Depth != level {
			return batch
		}
		link, _ := frontier.Pop()
		batch = append(batch, link)
		*fetched++
	}
}

func (l *Loader) fetchAll(ctx context.Context, batch []docchat.DiscoveredLink, followLinks bool) []page {
	pages := make([]page, len(batch))

	limit := l.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, link := range batch {
		g.Go(func() error {
			pages[i] = l.fetch(ctx, link.URL, followLinks)
			return nil
		})
	}
	_ = g.Wait()

	return pages
}

// fetch retrieves one page, reduces it to text and collects its links.
// A page with no text yields a nil document but still contributes links.
func (l *Loader) fetch(ctx context.Context, rawURL string, followLinks bool) page {
	if l.RateLimiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return page{err: err}
		}
		if err := l.RateLimiter.Wait(ctx, u.Host); err != nil {
			return page{err: err}
		}
	}

	body, err := FetchWithRetry(ctx, rawURL, l.Fetcher.Fetch, l.Logger, l.RetryDelays)
	if err != nil {
		return page{err: err}
	}

	var p page
	if followLinks && l.LinkSelectors != nil {
		links, err := l.LinkSelectors.GetForHTML(body).ExtractLinks(body, rawURL)
		if err != nil {
			l.logger().Debug("link extraction failed", "url", rawURL, "err", err)
		}
		p.links = links
	}

	result, err := l.Extractor.Extract(body)
	if err != nil {
		return page{err: fmt.Errorf("extracting %s: %w", rawURL, err)}
	}

	text := result.Text
	if text == "" && result.ContentHTML != "" {
		if text, err = l.Converter.Convert(result.ContentHTML); err != nil {
			return page{err: fmt.Errorf("converting %s: %w", rawURL, err)}
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		l.logger().Debug("skipping blank page", "url", rawURL)
		return p
	}

	p.doc = docchat.NewDocument(rawURL, result.Title, text)
	return p
}

func (l *Loader) seedFromSitemap(ctx context.Context, frontier *Frontier, sc scope, seed *url.URL) {
	root := &url.URL{Scheme: seed.Scheme, Host: seed.Host, Path: "/"}
	urls, err := l.Sitemaps.DiscoverURLs(ctx, root.String(), nil)
	if err != nil {
		l.logger().Warn("sitemap discovery failed", "url", root.String(), "err", err)
		return
	}
	for _, u := range urls {
		if !sc.contains(u) {
			continue
		}
		frontier.Push(docchat.DiscoveredLink{
			URL:      u,
			Priority: docchat.PrioritySitemap,
			Source:   "sitemap",
			Depth:    1,
		})
	}
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}

// scope limits a crawl to the seed's host and the paths under the seed's
// directory. Hosts compare case-insensitively.
type scope struct {
	host   string
	prefix string
}

func newScope(seed *url.URL) scope {
	prefix := seed.Path[:strings.LastIndex(seed.Path, "/")+1]
	if prefix == "" {
		prefix = "/"
	}
	return scope{host: seed.Host, prefix: prefix}
}

func (s scope) contains(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if !strings.EqualFold(u.Host, s.host) {
		return false
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	return strings.HasPrefix(p, s.prefix) || p+"/" == s.prefix
}
