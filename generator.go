package docchat

import "context"

// Generator produces a free-text completion for a prompt.
type Generator interface {
	// Generate runs the model once. Implementations do not retry.
	Generate(ctx context.Context, prompt string) (string, error)
}
