package openai

import (
	"context"
	"fmt"

	"github.com/fwojciec/docchat"
	"github.com/openai/openai-go"
)

// Ensure Embedder implements docchat.Embedder at compile time.
var _ docchat.Embedder = (*Embedder)(nil)

// maxBatch is the largest number of inputs sent in one request.
const maxBatch = 256

// Embedder implements docchat.Embedder with the embeddings endpoint.
type Embedder struct {
	client     openai.Client
	model      string
	dimensions int64
}

// EmbedderOption configures an Embedder.
type EmbedderOption func(*Embedder)

// WithDimensions requests n-dimensional embeddings.
func WithDimensions(n int) EmbedderOption {
	return func(e *Embedder) {
		e.dimensions = int64(n)
	}
}

// NewEmbedder creates a new Embedder for the given model.
func NewEmbedder(client openai.Client, model string, opts ...EmbedderOption) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	e := &Embedder{client: client, model: model}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Model identifies the embedding model and output size.
func (e *Embedder) Model() string {
	if e.dimensions > 0 {
		return fmt.Sprintf("openai:%s@%d", e.model, e.dimensions)
	}
	return "openai:" + e.model
}

// Embed returns one vector per text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		batch := texts[start:min(start+maxBatch, len(texts))]

		params := openai.EmbeddingNewParams{
			Model: openai.EmbeddingModel(e.model),
			Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: batch},
		}
		if e.dimensions > 0 {
			params.Dimensions = openai.Int(e.dimensions)
		}

		resp, err := e.client.Embeddings.New(ctx, params)
		if err != nil {
			return nil, err
		}
		if len(resp.Data) != len(batch) {
			return nil, docchat.Errorf(docchat.EINTERNAL, "openai returned %d embeddings for %d texts", len(resp.Data), len(batch))
		}

		vectors := make([][]float32, len(batch))
		for _, d := range resp.Data {
			if d.Index < 0 || int(d.Index) >= len(batch) {
				return nil, docchat.Errorf(docchat.EINTERNAL, "openai returned embedding index %d out of range", d.Index)
			}
			vectors[d.Index] = toFloat32(d.Embedding)
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
