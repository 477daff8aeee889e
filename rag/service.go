package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/docchat"
)

// Ensure Service implements docchat.Asker at compile time.
var _ docchat.Asker = (*Service)(nil)

// Service answers questions: retrieve, prompt, generate, extract.
// It holds no per-request state and is safe for concurrent use when its
// collaborators are.
type Service struct {
	Retriever *Retriever
	Generator docchat.Generator
}

// Ask answers the question from the indexed documentation.
func (s *Service) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", docchat.Errorf(docchat.EINVALID, "question required")
	}

	block, err := s.Retriever.Context(ctx, question)
	if err != nil {
		return "", pipelineError("retrieving context", err)
	}

	raw, err := s.Generator.Generate(ctx, docchat.BuildPrompt(block, question))
	if err != nil {
		return "", pipelineError("generating answer", err)
	}

	return docchat.ExtractAnswer(raw), nil
}

// pipelineError wraps a failure after the question was accepted. An
// EINVALID from a collaborator describes a fault in the service, not in the
// request, so it is reported as EINTERNAL.
func pipelineError(op string, err error) error {
	if docchat.ErrorCode(err) == docchat.EINVALID {
		return docchat.Errorf(docchat.EINTERNAL, "%s: %s", op, docchat.ErrorMessage(err))
	}
	return fmt.Errorf("%s: %w", op, err)
}
