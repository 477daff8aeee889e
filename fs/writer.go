// Package fs writes crawled documents to disk for review.
package fs

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docchat"
)

// URLToPath converts a page URL to a relative file path under its host.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", docchat.Errorf(docchat.EINVALID, "invalid URL %q", rawURL)
	}
	if u.Host == "" {
		return "", docchat.Errorf(docchat.EINVALID, "URL %q has no host", rawURL)
	}

	// Cleaning a rooted path drops any ".." that would climb out of the host.
	p := path.Clean("/" + u.Path)
	if p == "/" {
		return filepath.Join(u.Host, "index.md"), nil
	}
	if strings.HasSuffix(u.Path, "/") {
		return filepath.Join(u.Host, filepath.FromSlash(p), "index.md"), nil
	}
	return filepath.Join(u.Host, filepath.FromSlash(p)+".md"), nil
}

// FormatDocument formats a document with YAML frontmatter.
func FormatDocument(doc *docchat.Document) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(doc.SourceURL)
	b.WriteString("\ntitle: ")
	b.WriteString(doc.Title)
	b.WriteString("\ncrawled: ")
	b.WriteString(doc.FetchedAt.Format("2006-01-02"))
	b.WriteString("\nhash: ")
	b.WriteString(doc.ContentHash)
	b.WriteString("\n---\n\n")
	b.WriteString(doc.Content)
	return b.String()
}

// Writer writes documents as markdown files to a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// Write stores doc and returns the path of the written file.
func (w *Writer) Write(ctx context.Context, doc *docchat.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := doc.Validate(); err != nil {
		return "", err
	}

	relPath, err := URLToPath(doc.SourceURL)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(w.baseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(fullPath, []byte(FormatDocument(doc)), 0o644); err != nil {
		return "", err
	}
	return fullPath, nil
}
