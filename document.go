package docchat

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Document represents a crawled page reduced to text.
type Document struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"sourceUrl"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// NewDocument returns a document for the page at sourceURL. The ID is
// derived from the URL so the same page always maps to the same ID.
func NewDocument(sourceURL, title, content string) *Document {
	return &Document{
		ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte(sourceURL)).String(),
		SourceURL:   sourceURL,
		Title:       title,
		Content:     content,
		ContentHash: ContentHash(content),
		FetchedAt:   time.Now().UTC(),
	}
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "document ID required")
	}
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	return nil
}

// ContentHash returns the hex xxhash64 of s.
func ContentHash(s string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(s))
}

// DocumentLoader crawls documentation pages starting from a seed URL.
type DocumentLoader interface {
	// Load fetches the seed page and every in-scope page reachable from it
	// by following at most depth links, returning them as plain-text
	// documents in crawl order.
	//
	// Returns EINVALID for a non-HTTP seed or a negative depth. Returns an
	// error if the seed page itself cannot be fetched or extracted;
	// failures on pages below the seed are skipped.
	Load(ctx context.Context, seedURL string, depth int) ([]*Document, error)
}
