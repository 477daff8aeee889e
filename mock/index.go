package mock

import (
	"context"

	"github.com/fwojciec/docchat"
)

var _ docchat.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a mock implementation of docchat.VectorIndex.
type VectorIndex struct {
	SearchFn         func(ctx context.Context, vector []float32, k int) ([]*docchat.SearchResult, error)
	CountFn          func(ctx context.Context) (int, error)
	DocumentChunksFn func(ctx context.Context, sourceURL string) ([]*docchat.Chunk, error)
	CloseFn          func() error
}

func (i *VectorIndex) Search(ctx context.Context, vector []float32, k int) ([]*docchat.SearchResult, error) {
	return i.SearchFn(ctx, vector, k)
}

func (i *VectorIndex) Count(ctx context.Context) (int, error) {
	return i.CountFn(ctx)
}

func (i *VectorIndex) DocumentChunks(ctx context.Context, sourceURL string) ([]*docchat.Chunk, error) {
	return i.DocumentChunksFn(ctx, sourceURL)
}

func (i *VectorIndex) Close() error {
	if i.CloseFn == nil {
		return nil
	}
	return i.CloseFn()
}

var _ docchat.IndexStore = (*IndexStore)(nil)

// IndexStore is a mock implementation of docchat.IndexStore.
type IndexStore struct {
	PathFn     func() string
	ExistsFn   func() bool
	ManifestFn func(ctx context.Context) (*docchat.Manifest, error)
	CreateFn   func(ctx context.Context) (docchat.IndexBuilder, error)
	OpenFn     func(ctx context.Context) (docchat.VectorIndex, error)
}

func (s *IndexStore) Path() string {
	if s.PathFn == nil {
		return "mock-index"
	}
	return s.PathFn()
}

func (s *IndexStore) Exists() bool {
	return s.ExistsFn()
}

func (s *IndexStore) Manifest(ctx context.Context) (*docchat.Manifest, error) {
	return s.ManifestFn(ctx)
}

func (s *IndexStore) Create(ctx context.Context) (docchat.IndexBuilder, error) {
	return s.CreateFn(ctx)
}

func (s *IndexStore) Open(ctx context.Context) (docchat.VectorIndex, error) {
	return s.OpenFn(ctx)
}

var _ docchat.IndexBuilder = (*IndexBuilder)(nil)

// IndexBuilder is a mock implementation of docchat.IndexBuilder.
type IndexBuilder struct {
	AddFn    func(ctx context.Context, doc *docchat.Document, chunks []*docchat.Chunk) error
	CommitFn func(ctx context.Context, manifest *docchat.Manifest) error
	AbortFn  func() error
}

func (b *IndexBuilder) Add(ctx context.Context, doc *docchat.Document, chunks []*docchat.Chunk) error {
	return b.AddFn(ctx, doc, chunks)
}

func (b *IndexBuilder) Commit(ctx context.Context, manifest *docchat.Manifest) error {
	return b.CommitFn(ctx, manifest)
}

func (b *IndexBuilder) Abort() error {
	if b.AbortFn == nil {
		return nil
	}
	return b.AbortFn()
}
