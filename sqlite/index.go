package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/docchat"
)

// Compile-time interface verification.
var _ docchat.VectorIndex = (*Index)(nil)

// Index implements docchat.VectorIndex with an exhaustive cosine scan over
// embeddings held in memory. Chunk text stays in SQLite and is loaded only
// for the results. Index is safe for concurrent use.
type Index struct {
	db   *DB
	dims int

	seqs    []int64
	vectors [][]float32
	mags    []float64
}

func loadIndex(ctx context.Context, db *DB, dims int) (*Index, error) {
	rows, err := db.QueryContext(ctx, "SELECT seq, embedding FROM chunks ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("loading embeddings: %w", err)
	}
	defer rows.Close()

	idx := &Index{db: db, dims: dims}
	for rows.Next() {
		var seq int64
		var blob []byte
		if err := rows.Scan(&seq, &blob); err != nil {
			return nil, err
		}
		vec, err := decodeEmbedding(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", seq, err)
		}
		if len(vec) != dims {
			return nil, fmt.Errorf("chunk %d has %d dimensions, manifest says %d", seq, len(vec), dims)
		}
		idx.seqs = append(idx.seqs, seq)
		idx.vectors = append(idx.vectors, vec)
		idx.mags = append(idx.mags, magnitude(vec))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Search returns the k chunks most similar to vector.
func (i *Index) Search(ctx context.Context, vector []float32, k int) ([]*docchat.SearchResult, error) {
	if k <= 0 {
		return nil, docchat.Errorf(docchat.EINVALID, "k must be positive, got %d", k)
	}
	if len(i.vectors) == 0 {
		return nil, nil
	}
	if len(vector) != i.dims {
		return nil, docchat.Errorf(docchat.EINVALID, "query has %d dimensions, index has %d", len(vector), i.dims)
	}

	top := &topK{k: k}
	qm := magnitude(vector)
	for j, v := range i.vectors {
		top.offer(scored{idx: j, score: cosine(vector, v, qm, i.mags[j])})
	}
	best := top.sorted()

	seqs := make([]int64, len(best))
	for n, s := range best {
		seqs[n] = i.seqs[s.idx]
	}
	chunks, err := i.findChunks(ctx, seqs)
	if err != nil {
		return nil, err
	}

	results := make([]*docchat.SearchResult, 0, len(best))
	for n, s := range best {
		c, ok := chunks[seqs[n]]
		if !ok {
			return nil, fmt.Errorf("chunk %d missing from index", seqs[n])
		}
		results = append(results, &docchat.SearchResult{Chunk: c, Score: s.score})
	}
	return results, nil
}

// Count returns the number of stored chunks.
func (i *Index) Count(ctx context.Context) (int, error) {
	return len(i.vectors), nil
}

// DocumentChunks returns the stored chunks of the document fetched from
// sourceURL, embeddings omitted.
func (i *Index) DocumentChunks(ctx context.Context, sourceURL string) ([]*docchat.Chunk, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT c.id, c.document_id, d.source_url, d.title, c.position, c.char_offset, c.content
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.source_url = ?
		ORDER BY c.position
	`, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("loading document chunks: %w", err)
	}
	defer rows.Close()

	var chunks []*docchat.Chunk
	for rows.Next() {
		var c docchat.Chunk
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.SourceURL, &c.Title, &c.Position, &c.Offset, &c.Content); err != nil {
			return nil, err
		}
		chunks = append(chunks, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, docchat.Errorf(docchat.ENOTFOUND, "no indexed document for %s", sourceURL)
	}
	return chunks, nil
}

// Close closes the underlying database.
func (i *Index) Close() error {
	return i.db.Close()
}

func (i *Index) findChunks(ctx context.Context, seqs []int64) (map[int64]*docchat.Chunk, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(seqs)), ",")
	args := make([]any, len(seqs))
	for n, s := range seqs {
		args[n] = s
	}

	rows, err := i.db.QueryContext(ctx, `
		SELECT c.seq, c.id, c.document_id, d.source_url, d.title, c.position, c.char_offset, c.content
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE c.seq IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]*docchat.Chunk, len(seqs))
	for rows.Next() {
		var seq int64
		var c docchat.Chunk
		if err := rows.Scan(&seq, &c.ID, &c.DocumentID, &c.SourceURL, &c.Title, &c.Position, &c.Offset, &c.Content); err != nil {
			return nil, err
		}
		out[seq] = &c
	}
	return out, rows.Err()
}
