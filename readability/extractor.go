// Package readability extracts article content from documentation pages
// with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/docchat"
	"github.com/go-shiori/go-readability"
)

var _ docchat.Extractor = (*Extractor)(nil)

// Extractor keeps the part of a page readability scores as the article.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article HTML and title of the page.
func (e *Extractor) Extract(body string) (*docchat.ExtractResult, error) {
	if strings.TrimSpace(body) == "" {
		return nil, docchat.Errorf(docchat.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(body), nil)
	if err != nil {
		return nil, docchat.Errorf(docchat.EINVALID, "no readable content: %v", err)
	}

	return &docchat.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
