// Package goquery extracts links and visible text from HTML pages.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docchat"
)

// Rule maps a CSS selector to the priority of the links it matches.
type Rule struct {
	Selector string
	Priority docchat.LinkPriority
	Source   string
}

// extractLinks applies rules in order. Links are deduplicated by URL,
// keeping the highest priority, and external links are dropped. With
// fallback set, any anchor under the base URL's directory that no rule
// matched is kept at PriorityFallback so pages without semantic markup
// still yield links.
func extractLinks(html, baseURL string, rules []Rule, fallback bool) ([]docchat.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docchat.Errorf(docchat.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docchat.Errorf(docchat.EINVALID, "failed to parse HTML: %v", err)
	}

	dir := base.Path[:strings.LastIndex(base.Path, "/")+1]

	seen := make(map[string]int)
	var links []docchat.DiscoveredLink

	add := func(sel *goquery.Selection, priority docchat.LinkPriority, source string, underBase bool) {
		href, ok := sel.Attr("href")
		if !ok || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == nil || !strings.EqualFold(resolved.Host, base.Host) {
			return
		}
		if underBase && !strings.HasPrefix(resolved.Path, dir) {
			return
		}

		link := docchat.DiscoveredLink{
			URL:      resolved.String(),
			Priority: priority,
			Text:     strings.TrimSpace(sel.Text()),
			Source:   source,
		}
		if idx, ok := seen[link.URL]; ok {
			if !underBase && priority > links[idx].Priority {
				links[idx] = link
			}
			return
		}
		seen[link.URL] = len(links)
		links = append(links, link)
	}

	for _, r := range rules {
		doc.Find(r.Selector).Each(func(_ int, sel *goquery.Selection) {
			add(sel, r.Priority, r.Source, false)
		})
	}
	if fallback {
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			add(sel, docchat.PriorityFallback, "fallback", true)
		})
	}

	return links, nil
}

// resolveURL resolves href against base with the fragment stripped.
// Returns nil for unparseable or self-referential links.
func resolveURL(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	self := *base
	self.Fragment = ""
	if resolved.String() == self.String() {
		return nil
	}
	return resolved
}

func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	if href == "" {
		return true
	}
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(href, scheme) {
			return true
		}
	}
	return false
}
