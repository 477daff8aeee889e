package main

import (
	"fmt"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/docchat"
)

// Run executes the inspect command.
func (c *InspectCmd) Run(deps *Dependencies) error {
	m, err := deps.Store.Manifest(deps.Ctx)
	if err != nil {
		if docchat.ErrorCode(err) == docchat.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "No index at %s. Run 'docchat index' to build one.\n", deps.Store.Path())
		}
		return err
	}

	index, err := deps.Store.Open(deps.Ctx)
	if err != nil {
		return err
	}
	defer index.Close()

	if c.Document != "" {
		return c.printDocument(deps, index)
	}

	chunks, err := index.Count(deps.Ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Path:\t%s\n", deps.Store.Path())
	fmt.Fprintf(w, "Embedding model:\t%s\n", m.EmbeddingModel)
	fmt.Fprintf(w, "Dimensions:\t%d\n", m.Dimensions)
	fmt.Fprintf(w, "Documents:\t%d\n", m.Documents)
	fmt.Fprintf(w, "Chunks:\t%d\n", chunks)
	fmt.Fprintf(w, "Built:\t%s\n", m.BuiltAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Fingerprint:\t%s\n", m.Fingerprint)
	return w.Flush()
}

// printDocument writes the page text rebuilt from its stored chunks.
func (c *InspectCmd) printDocument(deps *Dependencies, index docchat.VectorIndex) error {
	chunks, err := index.DocumentChunks(deps.Ctx, c.Document)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "# %s (%d chunks)\n\n", c.Document, len(chunks))
	fmt.Fprintln(deps.Stdout, docchat.Reassemble(chunks, chunkOverlap(chunks)))
	return nil
}

// chunkOverlap recovers the overlap the chunks were cut with. Every window
// but the last is full, so the second chunk starts overlap runes before
// the end of the first.
func chunkOverlap(chunks []*docchat.Chunk) int {
	if len(chunks) < 2 {
		return 0
	}
	return chunks[0].Offset + utf8.RuneCountInString(chunks[0].Content) - chunks[1].Offset
}
