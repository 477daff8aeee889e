package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docchat"
)

var _ docchat.FrameworkDetector = (*Detector)(nil)

// signature lists markers unique to a documentation framework.
type signature struct {
	framework docchat.Framework
	selectors []string
}

// Checked in order; the first match wins.
var signatures = []signature{
	{docchat.FrameworkDocusaurus, []string{"#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container", "#__docusaurus"}},
	{docchat.FrameworkMkDocs, []string{"[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"}},
	{docchat.FrameworkSphinx, []string{".toctree-wrapper", ".wy-nav-side", ".wy-menu-vertical", ".sphinxsidebar"}},
	{docchat.FrameworkGitBook, []string{"[data-testid='space.sidebar']", "[data-testid='page.desktopTableOfContents']"}},
	{docchat.FrameworkReadMe, []string{".rm-Sidebar", ".rm-Article", "#readme-data-docs"}},
}

// Detector identifies documentation frameworks from generator meta tags
// and framework-specific markup.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the framework that built the page, or FrameworkUnknown.
func (d *Detector) Detect(html string) docchat.Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return docchat.FrameworkUnknown
	}

	if generator, ok := doc.Find("meta[name='generator']").Attr("content"); ok {
		generator = strings.ToLower(generator)
		for _, sig := range signatures {
			if strings.Contains(generator, string(sig.framework)) {
				return sig.framework
			}
		}
	}

	for _, sig := range signatures {
		for _, sel := range sig.selectors {
			if doc.Find(sel).Length() > 0 {
				return sig.framework
			}
		}
	}

	return docchat.FrameworkUnknown
}
