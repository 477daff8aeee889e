// Package xxhash provides an offline Embedder based on feature hashing.
// Vectors capture shared vocabulary only, so retrieval quality is far below
// a neural model, but they need no network, key or model download.
package xxhash

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docchat"
)

// Ensure Embedder implements docchat.Embedder at compile time.
var _ docchat.Embedder = (*Embedder)(nil)

// DefaultDimensions is the vector size used when none is configured.
const DefaultDimensions = 512

// Embedder hashes lowercased word tokens into a fixed number of signed
// buckets and L2-normalizes the result. It is deterministic and safe for
// concurrent use.
type Embedder struct {
	dims int
}

// NewEmbedder returns an Embedder producing vectors of dims dimensions.
func NewEmbedder(dims int) (*Embedder, error) {
	if dims == 0 {
		dims = DefaultDimensions
	}
	if dims < 0 {
		return nil, docchat.Errorf(docchat.EINVALID, "dimensions must be positive, got %d", dims)
	}
	return &Embedder{dims: dims}, nil
}

// Model identifies the hashing scheme and size.
func (e *Embedder) Model() string {
	return fmt.Sprintf("xxhash:words@%d", e.dims)
}

// Embed returns one vector per text.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embed(text)
	}
	return out, nil
}

func (e *Embedder) embed(text string) []float32 {
	vec := make([]float32, e.dims)
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		h := xxhash.Sum64String(tok)
		sign := float32(1)
		if h>>63 == 1 {
			sign = -1
		}
		vec[h%uint64(e.dims)] += sign
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= norm
	}
	return vec
}
