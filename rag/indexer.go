package rag

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/fwojciec/docchat"
)

// DefaultEmbedBatch is the number of chunks embedded per request.
const DefaultEmbedBatch = 32

// BuildResult reports what EnsureIndexBuilt did.
type BuildResult struct {
	// Built is true when a new index was written.
	Built bool

	// Reason explains the decision ("missing", "forced", "config changed",
	// "exists", "up to date").
	Reason string

	// Manifest of the index now on disk.
	Manifest *docchat.Manifest

	// Failed lists seeds that could not be crawled.
	Failed []string

	// Tokens is the total token count of indexed chunks, when a
	// TokenCounter is configured.
	Tokens int
}

// Indexer crawls, chunks and embeds documentation into an IndexStore.
type Indexer struct {
	Loader       docchat.DocumentLoader
	Splitter     *docchat.Splitter
	Embedder     docchat.Embedder
	Store        docchat.IndexStore
	TokenCounter docchat.TokenCounter // optional

	Config docchat.IngestConfig
	Policy docchat.ReindexPolicy

	// EmbedBatch is the number of chunks per Embed call. Zero means
	// DefaultEmbedBatch.
	EmbedBatch int

	Logger *slog.Logger
}

// EnsureIndexBuilt builds the index unless one already exists. With
// ReindexNever an existing index is always kept, but an index built with a
// different embedding model is an error. With ReindexOnChange the index is
// rebuilt when its configuration fingerprint differs.
func (ix *Indexer) EnsureIndexBuilt(ctx context.Context) (*BuildResult, error) {
	if !ix.Store.Exists() {
		return ix.build(ctx, "missing")
	}

	m, err := ix.Store.Manifest(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading index at %s: %w", ix.Store.Path(), err)
	}

	switch ix.Policy {
	case docchat.ReindexOnChange:
		if m.Fingerprint != ix.Config.Fingerprint() {
			return ix.build(ctx, "config changed")
		}
		return &BuildResult{Reason: "up to date", Manifest: m}, nil
	case docchat.ReindexNever, "":
		if m.EmbeddingModel != ix.Embedder.Model() {
			return nil, docchat.Errorf(docchat.EINVALID,
				"index at %s was built with embedding model %q, configured model is %q; rebuild the index or change the model",
				ix.Store.Path(), m.EmbeddingModel, ix.Embedder.Model())
		}
		return &BuildResult{Reason: "exists", Manifest: m}, nil
	default:
		return nil, docchat.Errorf(docchat.EINVALID, "unknown reindex policy %q", ix.Policy)
	}
}

// Rebuild builds a new index whether or not one exists.
func (ix *Indexer) Rebuild(ctx context.Context) (*BuildResult, error) {
	return ix.build(ctx, "forced")
}

func (ix *Indexer) build(ctx context.Context, reason string) (_ *BuildResult, err error) {
	logger := ix.logger()
	logger.Info("building index", "path", ix.Store.Path(), "reason", reason, "seeds", len(ix.Config.Seeds), "depth", ix.Config.Depth)

	result := &BuildResult{Built: true, Reason: reason}
	docs := ix.load(ctx, result)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, docchat.Errorf(docchat.EINTERNAL, "no documents could be loaded from %d seeds", len(ix.Config.Seeds))
	}

	builder, err := ix.Store.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}
	defer func() {
		if err != nil {
			_ = builder.Abort()
		}
	}()

	for _, doc := range docs {
		chunks := slices.Collect(ix.Splitter.Split(doc))
		if err := ix.embed(ctx, chunks); err != nil {
			return nil, fmt.Errorf("embedding %s: %w", doc.SourceURL, err)
		}
		if err := builder.Add(ctx, doc, chunks); err != nil {
			return nil, fmt.Errorf("indexing %s: %w", doc.SourceURL, err)
		}
		if ix.TokenCounter != nil {
			n, err := ix.TokenCounter.CountTokens(ctx, doc.Content)
			if err != nil {
				return nil, fmt.Errorf("counting tokens: %w", err)
			}
			result.Tokens += n
		}
	}

	m := &docchat.Manifest{
		Fingerprint:    ix.Config.Fingerprint(),
		EmbeddingModel: ix.Embedder.Model(),
	}
	if err := builder.Commit(ctx, m); err != nil {
		return nil, fmt.Errorf("committing index: %w", err)
	}
	result.Manifest = m

	logger.Info("index built",
		"path", ix.Store.Path(),
		"documents", m.Documents,
		"chunks", m.Chunks,
		"dimensions", m.Dimensions,
		"failed_seeds", len(result.Failed),
	)
	return result, nil
}

// load crawls every seed. Seed failures are logged and recorded, and the
// crawl moves on. Documents already seen by ID or content are dropped.
func (ix *Indexer) load(ctx context.Context, result *BuildResult) []*docchat.Document {
	logger := ix.logger()
	seenIDs := make(map[string]bool)
	seenContent := make(map[string]bool)

	var docs []*docchat.Document
	for _, seed := range ix.Config.Seeds {
		if ctx.Err() != nil {
			return nil
		}
		loaded, err := ix.Loader.Load(ctx, seed, ix.Config.Depth)
		if err != nil {
			logger.Warn("skipping seed", "url", seed, "err", err)
			result.Failed = append(result.Failed, seed)
			continue
		}
		for _, doc := range loaded {
			if seenIDs[doc.ID] || seenContent[doc.ContentHash] {
				continue
			}
			seenIDs[doc.ID] = true
			seenContent[doc.ContentHash] = true
			docs = append(docs, doc)
		}
	}
	return docs
}

func (ix *Indexer) embed(ctx context.Context, chunks []*docchat.Chunk) error {
	size := ix.EmbedBatch
	if size <= 0 {
		size = DefaultEmbedBatch
	}
	for batch := range slices.Chunk(chunks, size) {
		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		vectors, err := ix.Embedder.Embed(ctx, texts)
		if err != nil {
			return err
		}
		if len(vectors) != len(batch) {
			return docchat.Errorf(docchat.EINTERNAL, "embedder returned %d vectors for %d chunks", len(vectors), len(batch))
		}
		for i, c := range batch {
			c.Embedding = vectors[i]
		}
	}
	return nil
}

func (ix *Indexer) logger() *slog.Logger {
	if ix.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return ix.Logger
}
