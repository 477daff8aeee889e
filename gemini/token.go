package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fwojciec/docchat"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ docchat.TokenCounter = (*TokenCounter)(nil)

// DefaultTokenizerModel is used when the local tokenizer does not know the
// requested model.
const DefaultTokenizerModel = "gemini-2.5-flash"

// TokenCounter counts tokens locally using the Gemini tokenizer. It is
// safe for concurrent use.
type TokenCounter struct {
	mu    sync.Mutex
	tok   *tokenizer.LocalTokenizer
	model string
}

// NewTokenCounter creates a TokenCounter for model, falling back to
// DefaultTokenizerModel when the tokenizer does not support it.
func NewTokenCounter(model string) (*TokenCounter, error) {
	return newTokenCounter(model, tokenizer.NewLocalTokenizer)
}

func newTokenCounter(model string, load func(string) (*tokenizer.LocalTokenizer, error)) (*TokenCounter, error) {
	tok, err := load(model)
	if isUnsupportedModel(err) && model != DefaultTokenizerModel {
		model = DefaultTokenizerModel
		tok, err = load(model)
	}
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer for %s: %w", model, err)
	}
	return &TokenCounter{tok: tok, model: model}, nil
}

// isUnsupportedModel reports whether err is the tokenizer's rejection of an
// unknown model name. The tokenizer package has no sentinel for it.
func isUnsupportedModel(err error) bool {
	return err != nil && strings.Contains(err.Error(), "is not supported")
}

// Model returns the model whose tokenizer is in use.
func (tc *TokenCounter) Model() string {
	return tc.model
}

// CountTokens counts the tokens in text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()
	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, fmt.Errorf("counting tokens: %w", err)
	}
	return int(result.TotalTokens), nil
}
