package goquery

import "github.com/fwojciec/docchat"

var _ docchat.LinkSelector = (*Selector)(nil)

// Selector extracts links with a fixed set of rules.
type Selector struct {
	name     string
	rules    []Rule
	fallback bool
}

// NewSelector returns a selector applying rules in order. With fallback set,
// remaining anchors under the page's path are kept at PriorityFallback.
func NewSelector(name string, rules []Rule, fallback bool) *Selector {
	return &Selector{name: name, rules: rules, fallback: fallback}
}

// Name returns the selector's identifier.
func (s *Selector) Name() string { return s.name }

// ExtractLinks returns the page's same-host links in rule order.
func (s *Selector) ExtractLinks(html string, baseURL string) ([]docchat.DiscoveredLink, error) {
	return extractLinks(html, baseURL, s.rules, s.fallback)
}

// NewGenericSelector returns a selector built on common HTML landmarks.
func NewGenericSelector() *Selector {
	return NewSelector("generic", []Rule{
		{".toc a[href], .table-of-contents a[href], .sidebar a[href], aside a[href]", docchat.PriorityTOC, "toc"},
		{"nav a[href], [role=\"navigation\"] a[href], .nav a[href], .menu a[href], .navbar a[href]", docchat.PriorityNavigation, "nav"},
		{"main a[href], article a[href], .content a[href], .doc-content a[href]", docchat.PriorityContent, "content"},
		{"footer a[href], .footer a[href]", docchat.PriorityFooter, "footer"},
	}, true)
}

// NewDocusaurusSelector returns a selector for Docusaurus sites.
func NewDocusaurusSelector() *Selector {
	return NewSelector(string(docchat.FrameworkDocusaurus), []Rule{
		{".table-of-contents a[href]", docchat.PriorityTOC, "toc"},
		{".theme-doc-sidebar-container a[href]", docchat.PriorityNavigation, "sidebar"},
		{"nav.navbar a[href]", docchat.PriorityNavigation, "navbar"},
		{"article a[href], main a[href]", docchat.PriorityContent, "content"},
		{"footer a[href]", docchat.PriorityFooter, "footer"},
	}, false)
}

// NewMkDocsSelector returns a selector for MkDocs Material sites.
func NewMkDocsSelector() *Selector {
	return NewSelector(string(docchat.FrameworkMkDocs), []Rule{
		{".md-sidebar--secondary a[href], [data-md-component='toc'] a[href]", docchat.PriorityTOC, "toc"},
		{".md-nav--primary a[href], [data-md-component='navigation'] a[href]", docchat.PriorityNavigation, "nav"},
		{".md-content a[href], article a[href]", docchat.PriorityContent, "content"},
		{"footer a[href]", docchat.PriorityFooter, "footer"},
	}, false)
}

// NewSphinxSelector returns a selector for Sphinx and Read the Docs sites.
func NewSphinxSelector() *Selector {
	return NewSelector(string(docchat.FrameworkSphinx), []Rule{
		{".toctree-wrapper a[href], #localtoc a[href]", docchat.PriorityTOC, "toc"},
		{".wy-nav-side a[href], .wy-menu-vertical a[href], .sphinxsidebar a[href]", docchat.PriorityNavigation, "nav"},
		{".document a[href], .body a[href], article a[href]", docchat.PriorityContent, "content"},
		{"footer a[href]", docchat.PriorityFooter, "footer"},
	}, false)
}

// NewGitBookSelector returns a selector for GitBook sites.
func NewGitBookSelector() *Selector {
	return NewSelector(string(docchat.FrameworkGitBook), []Rule{
		{"[data-testid='page.desktopTableOfContents'] a[href]", docchat.PriorityTOC, "toc"},
		{"[data-testid='space.sidebar'] a[href], [data-testid='space.header'] a[href]", docchat.PriorityNavigation, "sidebar"},
		{"[data-testid='page.contentEditor'] a[href], main a[href], article a[href]", docchat.PriorityContent, "content"},
		{"footer a[href]", docchat.PriorityFooter, "footer"},
	}, false)
}

// NewReadMeSelector returns a selector for ReadMe hosted docs.
func NewReadMeSelector() *Selector {
	return NewSelector(string(docchat.FrameworkReadMe), []Rule{
		{".content-toc a[href]", docchat.PriorityTOC, "toc"},
		{".rm-Sidebar a[href], nav a[href]", docchat.PriorityNavigation, "sidebar"},
		{".rm-Article a[href], article a[href], main a[href]", docchat.PriorityContent, "content"},
		{"footer a[href]", docchat.PriorityFooter, "footer"},
	}, true)
}
