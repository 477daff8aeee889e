package rag

import (
	"context"
	"fmt"

	"github.com/fwojciec/docchat"
)

// Retriever finds the chunks closest to a question.
type Retriever struct {
	Embedder docchat.Embedder
	Index    docchat.VectorIndex

	// TopK is the number of chunks returned. Zero means docchat.DefaultTopK.
	TopK int
}

// Retrieve embeds the question and returns the top chunks, most similar first.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]*docchat.SearchResult, error) {
	vectors, err := r.Embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, docchat.Errorf(docchat.EINTERNAL, "embedder returned %d vectors for one question", len(vectors))
	}

	k := r.TopK
	if k == 0 {
		k = docchat.DefaultTopK
	}
	results, err := r.Index.Search(ctx, vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	return results, nil
}

// Context retrieves the top chunks and joins them into a context block.
func (r *Retriever) Context(ctx context.Context, question string) (string, error) {
	results, err := r.Retrieve(ctx, question)
	if err != nil {
		return "", err
	}
	return docchat.FormatContext(results), nil
}
