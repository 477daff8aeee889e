package goquery

import "github.com/fwojciec/docchat"

var _ docchat.LinkSelectorRegistry = (*Registry)(nil)

// Registry picks a framework-specific link selector for each page,
// falling back to a generic selector when the framework is unknown
// or has no registered selector.
type Registry struct {
	detector  docchat.FrameworkDetector
	fallback  docchat.LinkSelector
	selectors map[docchat.Framework]docchat.LinkSelector
}

// NewRegistry creates a Registry with the given detector and fallback selector.
func NewRegistry(detector docchat.FrameworkDetector, fallback docchat.LinkSelector) *Registry {
	return &Registry{
		detector:  detector,
		fallback:  fallback,
		selectors: make(map[docchat.Framework]docchat.LinkSelector),
	}
}

// NewDefaultRegistry returns a Registry with every built-in selector.
func NewDefaultRegistry() *Registry {
	r := NewRegistry(NewDetector(), NewGenericSelector())
	r.Register(docchat.FrameworkDocusaurus, NewDocusaurusSelector())
	r.Register(docchat.FrameworkMkDocs, NewMkDocsSelector())
	r.Register(docchat.FrameworkSphinx, NewSphinxSelector())
	r.Register(docchat.FrameworkGitBook, NewGitBookSelector())
	r.Register(docchat.FrameworkReadMe, NewReadMeSelector())
	return r
}

// Register adds or replaces the selector for a framework.
func (r *Registry) Register(framework docchat.Framework, selector docchat.LinkSelector) {
	r.selectors[framework] = selector
}

// GetForHTML returns the selector for the page's detected framework.
func (r *Registry) GetForHTML(html string) docchat.LinkSelector {
	if selector, ok := r.selectors[r.detector.Detect(html)]; ok {
		return selector
	}
	return r.fallback
}
