// Package openai implements embedding and generation with the OpenAI API
// or any server speaking its protocol.
package openai

import (
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Default models.
const (
	DefaultGenerationModel = "gpt-4o-mini"
	DefaultEmbeddingModel  = "text-embedding-3-small"
)

// NewClient creates an API client. An empty baseURL uses the OpenAI API.
func NewClient(apiKey, baseURL string) openai.Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	// The generator does not retry; neither should the transport.
	opts = append(opts, option.WithMaxRetries(0))
	return openai.NewClient(opts...)
}
