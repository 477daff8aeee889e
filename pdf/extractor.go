// Package pdf extracts the text of PDF documents linked from documentation sites.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/docchat"
	"github.com/ledongthuc/pdf"
)

var _ docchat.Extractor = (*Extractor)(nil)

// magic starts every PDF file.
const magic = "%PDF-"

// Extractor reads text out of PDF bodies and passes every other body to next.
type Extractor struct {
	next docchat.Extractor
}

// NewExtractor wraps next with PDF support.
func NewExtractor(next docchat.Extractor) *Extractor {
	return &Extractor{next: next}
}

// IsPDF reports whether body is a PDF file.
func IsPDF(body string) bool {
	return strings.HasPrefix(body, magic)
}

// Extract returns the plain text and title of a PDF, or delegates.
func (e *Extractor) Extract(body string) (*docchat.ExtractResult, error) {
	if !IsPDF(body) {
		return e.next.Extract(body)
	}
	return extract(body)
}

func extract(body string) (result *docchat.ExtractResult, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, docchat.Errorf(docchat.EINVALID, "malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(strings.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, docchat.Errorf(docchat.EINVALID, "reading PDF: %v", err)
	}

	text, err := r.GetPlainText()
	if err != nil {
		return nil, docchat.Errorf(docchat.EINVALID, "extracting PDF text: %v", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, text); err != nil {
		return nil, fmt.Errorf("extracting PDF text: %w", err)
	}

	return &docchat.ExtractResult{
		Title: strings.TrimSpace(r.Trailer().Key("Info").Key("Title").Text()),
		Text:  strings.TrimSpace(buf.String()),
	}, nil
}
