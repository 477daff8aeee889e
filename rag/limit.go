package rag

import (
	"context"

	"github.com/fwojciec/docchat"
	"golang.org/x/sync/semaphore"
)

var (
	_ docchat.Generator = (*LimitedGenerator)(nil)
	_ docchat.Embedder  = (*LimitedEmbedder)(nil)
)

// LimitedGenerator bounds the number of concurrent Generate calls. A limit
// of one serializes access for clients that are not safe for concurrent use.
type LimitedGenerator struct {
	next docchat.Generator
	sem  *semaphore.Weighted
}

// NewLimitedGenerator wraps next. A limit <= 0 returns next unchanged.
func NewLimitedGenerator(next docchat.Generator, limit int) docchat.Generator {
	if limit <= 0 {
		return next
	}
	return &LimitedGenerator{next: next, sem: semaphore.NewWeighted(int64(limit))}
}

// Generate waits for a free slot, or for ctx to be done.
func (g *LimitedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer g.sem.Release(1)
	return g.next.Generate(ctx, prompt)
}

// LimitedEmbedder bounds the number of concurrent Embed calls.
type LimitedEmbedder struct {
	next docchat.Embedder
	sem  *semaphore.Weighted
}

// NewLimitedEmbedder wraps next. A limit <= 0 returns next unchanged.
func NewLimitedEmbedder(next docchat.Embedder, limit int) docchat.Embedder {
	if limit <= 0 {
		return next
	}
	return &LimitedEmbedder{next: next, sem: semaphore.NewWeighted(int64(limit))}
}

// Embed waits for a free slot, or for ctx to be done.
func (e *LimitedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer e.sem.Release(1)
	return e.next.Embed(ctx, texts)
}

// Model returns the wrapped embedder's model.
func (e *LimitedEmbedder) Model() string {
	return e.next.Model()
}
