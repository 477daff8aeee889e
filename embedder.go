package docchat

import "context"

// Embedder maps text to fixed-dimension vectors. The same Embedder
// configuration must be used to build an index and to query it.
type Embedder interface {
	// Embed returns one vector per text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Model identifies the model and configuration producing the vectors
	// (e.g. "gemini:gemini-embedding-001").
	Model() string
}
