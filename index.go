package docchat

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// SearchResult is a chunk matched by a vector query.
type SearchResult struct {
	Chunk *Chunk  `json:"chunk"`
	Score float64 `json:"score"`
}

// VectorIndex answers nearest-neighbor queries over chunk embeddings.
// Implementations are read-only and safe for concurrent use.
type VectorIndex interface {
	// Search returns the k entries most similar to vector, by descending
	// similarity. If k is at least the number of entries, every entry is
	// returned exactly once. Returns EINVALID if k <= 0 or the vector's
	// dimension does not match the index.
	Search(ctx context.Context, vector []float32, k int) ([]*SearchResult, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// DocumentChunks returns the chunks of the document fetched from
	// sourceURL in position order. Returns ENOTFOUND if it is not indexed.
	DocumentChunks(ctx context.Context, sourceURL string) ([]*Chunk, error)

	// Close releases the underlying storage.
	Close() error
}

// Manifest describes a persisted index.
type Manifest struct {
	Fingerprint    string    `json:"fingerprint"`
	EmbeddingModel string    `json:"embeddingModel"`
	Dimensions     int       `json:"dimensions"`
	Documents      int       `json:"documents"`
	Chunks         int       `json:"chunks"`
	BuiltAt        time.Time `json:"builtAt"`
}

// IndexStore manages the on-disk location of a persisted index.
type IndexStore interface {
	// Path returns the index location.
	Path() string

	// Exists reports whether an index is present at the location.
	Exists() bool

	// Manifest returns the manifest of the persisted index.
	// Returns ENOTFOUND if no index exists.
	Manifest(ctx context.Context) (*Manifest, error)

	// Create starts a new build. The existing index, if any, is untouched
	// until the builder commits.
	Create(ctx context.Context) (IndexBuilder, error)

	// Open loads the persisted index for querying.
	// Returns ENOTFOUND if no index exists.
	Open(ctx context.Context) (VectorIndex, error)
}

// IndexBuilder writes a new index.
type IndexBuilder interface {
	// Add stores a document and its embedded chunks.
	Add(ctx context.Context, doc *Document, chunks []*Chunk) error

	// Commit records the manifest and replaces the persisted index.
	Commit(ctx context.Context, manifest *Manifest) error

	// Abort discards the build. Calling Abort after Commit is a no-op.
	Abort() error
}

// IngestConfig holds the settings that determine index contents.
type IngestConfig struct {
	Seeds          []string
	Depth          int
	ChunkSize      int
	ChunkOverlap   int
	EmbeddingModel string
}

// Fingerprint returns a stable hash of the configuration. Seed order does
// not matter.
func (c IngestConfig) Fingerprint() string {
	seeds := slices.Clone(c.Seeds)
	slices.Sort(seeds)
	seeds = slices.Compact(seeds)
	canonical := fmt.Sprintf("seeds=%s\ndepth=%d\nsize=%d\noverlap=%d\nmodel=%s",
		strings.Join(seeds, ","), c.Depth, c.ChunkSize, c.ChunkOverlap, c.EmbeddingModel)
	return ContentHash(canonical)
}

// ReindexPolicy decides whether an existing index is rebuilt at startup.
type ReindexPolicy string

// Reindex policies.
const (
	// ReindexNever reuses an existing index regardless of configuration.
	ReindexNever ReindexPolicy = "never"

	// ReindexOnChange rebuilds when the configuration fingerprint differs
	// from the one stored with the index.
	ReindexOnChange ReindexPolicy = "on-change"
)

// ParseReindexPolicy parses s. The empty string means ReindexNever.
func ParseReindexPolicy(s string) (ReindexPolicy, error) {
	switch p := ReindexPolicy(s); p {
	case "":
		return ReindexNever, nil
	case ReindexNever, ReindexOnChange:
		return p, nil
	default:
		return "", Errorf(EINVALID, "unknown reindex policy %q (want %q or %q)", s, ReindexNever, ReindexOnChange)
	}
}
