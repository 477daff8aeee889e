package mock

import (
	"context"

	"github.com/fwojciec/docchat"
)

var _ docchat.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docchat.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ docchat.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docchat.Extractor.
type Extractor struct {
	ExtractFn func(body string) (*docchat.ExtractResult, error)
}

func (e *Extractor) Extract(body string) (*docchat.ExtractResult, error) {
	return e.ExtractFn(body)
}

var _ docchat.Converter = (*Converter)(nil)

// Converter is a mock implementation of docchat.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ docchat.DocumentLoader = (*DocumentLoader)(nil)

// DocumentLoader is a mock implementation of docchat.DocumentLoader.
type DocumentLoader struct {
	LoadFn func(ctx context.Context, seedURL string, depth int) ([]*docchat.Document, error)
}

func (l *DocumentLoader) Load(ctx context.Context, seedURL string, depth int) ([]*docchat.Document, error) {
	return l.LoadFn(ctx, seedURL, depth)
}
