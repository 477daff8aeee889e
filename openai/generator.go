package openai

import (
	"context"

	"github.com/fwojciec/docchat"
	"github.com/openai/openai-go"
)

// Ensure Generator implements docchat.Generator at compile time.
var _ docchat.Generator = (*Generator)(nil)

// Generator implements docchat.Generator with chat completions.
type Generator struct {
	client openai.Client
	model  string
}

// NewGenerator creates a new Generator for the given model.
func NewGenerator(client openai.Client, model string) *Generator {
	if model == "" {
		model = DefaultGenerationModel
	}
	return &Generator{client: client, model: model}
}

// Generate sends the prompt as a single user message.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", docchat.Errorf(docchat.EINVALID, "prompt required")
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", docchat.Errorf(docchat.EINTERNAL, "openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
