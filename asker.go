package docchat

import "context"

// Asker answers natural language questions from the indexed documentation.
type Asker interface {
	// Ask answers a question. Returns EINVALID if the question is blank.
	Ask(ctx context.Context, question string) (string, error)
}
