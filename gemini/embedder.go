package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/docchat"
	"google.golang.org/genai"
)

// Ensure Embedder implements docchat.Embedder at compile time.
var _ docchat.Embedder = (*Embedder)(nil)

// maxBatch is the largest number of texts sent in one embedding request.
const maxBatch = 100

// Embedder implements docchat.Embedder using Gemini embedding models.
type Embedder struct {
	client     *genai.Client
	model      string
	dimensions int32
}

// EmbedderOption configures an Embedder.
type EmbedderOption func(*Embedder)

// WithDimensions truncates embeddings to n dimensions.
func WithDimensions(n int) EmbedderOption {
	return func(e *Embedder) {
		e.dimensions = int32(n)
	}
}

// NewEmbedder creates a new Embedder for the given model.
func NewEmbedder(client *genai.Client, model string, opts ...EmbedderOption) *Embedder {
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
		return fmt.Sprintf("gemini:%s@%d", e.model, e.dimensions)
	}
	return "gemini:" + e.model
}

// Embed returns one vector per text.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		batch := texts[start:min(start+maxBatch, len(texts))]

		contents := make([]*genai.Content, len(batch))
		for i, text := range batch {
			contents[i] = genai.NewContentFromText(text, "user")
		}

		result, err := e.client.Models.EmbedContent(ctx, e.model, contents, e.config())
		if err != nil {
			return nil, err
		}
		if result == nil || len(result.Embeddings) != len(batch) {
			return nil, docchat.Errorf(docchat.EINTERNAL, "gemini returned %d embeddings for %d texts", countEmbeddings(result), len(batch))
		}
		for _, emb := range result.Embeddings {
			out = append(out, emb.Values)
		}
	}
	return out, nil
}

func (e *Embedder) config() *genai.EmbedContentConfig {
	if e.dimensions == 0 {
		return nil
	}
	return &genai.EmbedContentConfig{OutputDimensionality: &e.dimensions}
}

func countEmbeddings(r *genai.EmbedContentResponse) int {
	if r == nil {
		return 0
	}
	return len(r.Embeddings)
}
