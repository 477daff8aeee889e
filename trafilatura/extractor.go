// Package trafilatura extracts the main content of documentation pages
// with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/docchat"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ docchat.Extractor = (*Extractor)(nil)

// Extractor drops navigation, footers and comments and keeps the main content.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
		},
	}
}

// Extract returns the page's main content as HTML. When trafilatura only
// recovers plain text, it is returned as Text instead.
func (e *Extractor) Extract(body string) (*docchat.ExtractResult, error) {
	if strings.TrimSpace(body) == "" {
		return nil, docchat.Errorf(docchat.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(body), e.opts)
	if err != nil {
		return nil, docchat.Errorf(docchat.EINVALID, "no main content: %v", err)
	}

	out := &docchat.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode == nil {
		out.Text = result.ContentText
		return out, nil
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return nil, err
	}
	out.ContentHTML = buf.String()
	return out, nil
}
