package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fwojciec/docchat"
)

// Compile-time interface verification.
var (
	_ docchat.IndexStore   = (*Store)(nil)
	_ docchat.IndexBuilder = (*Builder)(nil)
)

// DatabaseFile is the name of the database inside the index directory.
const DatabaseFile = "index.db"

// Manifest keys.
const (
	keyFingerprint    = "fingerprint"
	keyEmbeddingModel = "embedding_model"
	keyDimensions     = "dimensions"
	keyDocuments      = "documents"
	keyChunks         = "chunks"
	keyBuiltAt        = "built_at"
)

// Store implements docchat.IndexStore on a directory holding a SQLite
// database. The presence of the directory is what marks an index as built.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

// Path returns the index directory.
func (s *Store) Path() string {
	return s.dir
}

// Exists reports whether the index directory exists.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.dir)
	return err == nil
}

// Manifest reads the manifest of the persisted index.
func (s *Store) Manifest(ctx context.Context) (*docchat.Manifest, error) {
	db, err := s.openReadOnly()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return readManifest(ctx, db)
}

// Open loads the persisted index for querying.
func (s *Store) Open(ctx context.Context) (docchat.VectorIndex, error) {
	db, err := s.openReadOnly()
	if err != nil {
		return nil, err
	}
	m, err := readManifest(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	idx, err := loadIndex(ctx, db, m.Dimensions)
	if err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

func (s *Store) openReadOnly() (*DB, error) {
	if !s.Exists() {
		return nil, docchat.Errorf(docchat.ENOTFOUND, "no index at %s", s.dir)
	}
	path := filepath.Join(s.dir, DatabaseFile)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("index at %s is unreadable: %w", s.dir, err)
	}
	db := NewDB(path, WithReadOnly())
	if err := db.Open(); err != nil {
		return nil, fmt.Errorf("index at %s is unreadable: %w", s.dir, err)
	}
	return db, nil
}

// Create starts a new build in a staging directory next to the index.
func (s *Store) Create(ctx context.Context) (docchat.IndexBuilder, error) {
	staging := s.dir + ".building"
	if err := os.RemoveAll(staging); err != nil {
		return nil, fmt.Errorf("clearing staging directory: %w", err)
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	db := NewDB(filepath.Join(staging, DatabaseFile))
	if err := db.Open(); err != nil {
		os.RemoveAll(staging)
		return nil, err
	}
	return &Builder{store: s, staging: staging, db: db}, nil
}

// Builder writes a new index into a staging directory and swaps it in on
// Commit.
type Builder struct {
	store   *Store
	staging string
	db      *DB

	dims      int
	documents int
	chunks    int
	done      bool
}

// Add stores a document and its embedded chunks in one transaction.
func (b *Builder) Add(ctx context.Context, doc *docchat.Document, chunks []*docchat.Chunk) error {
	if b.done {
		return docchat.Errorf(docchat.EINVALID, "index build already finished")
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
		if len(c.Embedding) == 0 {
			return docchat.Errorf(docchat.EINVALID, "chunk %s has no embedding", c.ID)
		}
		if b.dims == 0 {
			b.dims = len(c.Embedding)
		}
		if len(c.Embedding) != b.dims {
			return docchat.Errorf(docchat.EINVALID, "chunk %s has %d dimensions, index has %d", c.ID, len(c.Embedding), b.dims)
		}
	}

	tx, err := b.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, source_url, title, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?)
	`, doc.ID, doc.SourceURL, doc.Title, doc.ContentHash, doc.FetchedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("inserting document %s: %w", doc.SourceURL, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, position, char_offset, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID, doc.ID, c.Position, c.Offset, c.Content, encodeEmbedding(c.Embedding)); err != nil {
			return fmt.Errorf("inserting chunk %d of %s: %w", c.Position, doc.SourceURL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	b.documents++
	b.chunks += len(chunks)
	return nil
}

// Commit writes the manifest and moves the staged index into place,
// replacing any previous index. Counts and dimensions are filled from
// what was added.
func (b *Builder) Commit(ctx context.Context, m *docchat.Manifest) error {
	if b.done {
		return docchat.Errorf(docchat.EINVALID, "index build already finished")
	}
	m.Dimensions = b.dims
	m.Documents = b.documents
	m.Chunks = b.chunks
	if m.BuiltAt.IsZero() {
		m.BuiltAt = time.Now().UTC()
	}

	if err := writeManifest(ctx, b.db, m); err != nil {
		return err
	}
	// Leave a self-contained file that can be opened read-only.
	if _, err := b.db.ExecContext(ctx, "PRAGMA journal_mode = DELETE"); err != nil {
		return fmt.Errorf("finalizing database: %w", err)
	}
	if err := b.db.Close(); err != nil {
		return err
	}
	b.done = true

	dir := b.store.dir
	old := dir + ".old"
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	if err := os.Rename(dir, old); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("moving previous index aside: %w", err)
	}
	if err := os.Rename(b.staging, dir); err != nil {
		// Put the previous index back so the location stays usable.
		_ = os.Rename(old, dir)
		return fmt.Errorf("installing index: %w", err)
	}
	return os.RemoveAll(old)
}

// Abort discards the staged build.
func (b *Builder) Abort() error {
	if b.done {
		return nil
	}
	b.done = true
	err := b.db.Close()
	if rmErr := os.RemoveAll(b.staging); err == nil {
		err = rmErr
	}
	return err
}

func writeManifest(ctx context.Context, db *DB, m *docchat.Manifest) error {
	values := map[string]string{
		keyFingerprint:    m.Fingerprint,
		keyEmbeddingModel: m.EmbeddingModel,
		keyDimensions:     strconv.Itoa(m.Dimensions),
		keyDocuments:      strconv.Itoa(m.Documents),
		keyChunks:         strconv.Itoa(m.Chunks),
		keyBuiltAt:        m.BuiltAt.UTC().Format(time.RFC3339),
	}
	for k, v := range values {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO manifest (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, v); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
	}
	return nil
}

func readManifest(ctx context.Context, db *DB) (*docchat.Manifest, error) {
	rows, err := db.QueryContext(ctx, "SELECT key, value FROM manifest")
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("index has no manifest")
	}

	m := &docchat.Manifest{
		Fingerprint:    values[keyFingerprint],
		EmbeddingModel: values[keyEmbeddingModel],
	}
	for key, dst := range map[string]*int{
		keyDimensions: &m.Dimensions,
		keyDocuments:  &m.Documents,
		keyChunks:     &m.Chunks,
	} {
		n, err := strconv.Atoi(values[key])
		if err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", key, err)
		}
		*dst = n
	}
	if m.BuiltAt, err = parseRFC3339(values[keyBuiltAt], keyBuiltAt); err != nil {
		return nil, err
	}
	return m, nil
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}
