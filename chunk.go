package docchat

import (
	"iter"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Default chunking parameters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunk is a bounded segment of a document and the unit of retrieval.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	SourceURL  string    `json:"sourceUrl"`
	Title      string    `json:"title,omitempty"`
	Position   int       `json:"position"`
	Offset     int       `json:"offset"` // in runes
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.DocumentID == "" {
		return Errorf(EINVALID, "chunk document ID required")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	return nil
}

// Splitter cuts documents into fixed-size windows of runes where
// consecutive windows share exactly Overlap runes.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter returns a Splitter. It returns EINVALID unless
// 0 <= overlap < size.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, Errorf(EINVALID, "chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, Errorf(EINVALID, "chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, Errorf(EINVALID, "chunk overlap (%d) must be smaller than chunk size (%d)", overlap, size)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Size returns the maximum chunk length in runes.
func (s *Splitter) Size() int { return s.size }

// Overlap returns the number of runes shared by consecutive chunks.
func (s *Splitter) Overlap() int { return s.overlap }

// Split returns the chunks of doc. The sequence is computed lazily and can
// be ranged over any number of times with identical results.
func (s *Splitter) Split(doc *Document) iter.Seq[*Chunk] {
	return func(yield func(*Chunk) bool) {
		runes := []rune(doc.Content)
		step := s.size - s.overlap
		for pos, start := 0, 0; start < len(runes); pos, start = pos+1, start+step {
			end := min(start+s.size, len(runes))
			chunk := &Chunk{
				ID:         chunkID(doc.ID, pos),
				DocumentID: doc.ID,
				SourceURL:  doc.SourceURL,
				Title:      doc.Title,
				Position:   pos,
				Offset:     start,
				Content:    string(runes[start:end]),
			}
			if !yield(chunk) || end == len(runes) {
				return
			}
		}
	}
}

// Reassemble joins chunks produced with the given overlap back into the
// original text.
func Reassemble(chunks []*Chunk, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c.Content)
			continue
		}
		b.WriteString(string([]rune(c.Content)[overlap:]))
	}
	return b.String()
}

func chunkID(documentID string, position int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(documentID+"#"+strconv.Itoa(position))).String()
}
