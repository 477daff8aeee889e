package main

import (
	"fmt"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/rag"
	"github.com/fwojciec/docchat/slog"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	index, err := openIndex(deps)
	if err != nil {
		return err
	}
	defer index.Close()

	answer, err := newAsker(deps, index).Ask(deps.Ctx, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docchat.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}

// openIndex builds the index when the reindex policy asks for it and opens
// it for querying.
func openIndex(deps *Dependencies) (docchat.VectorIndex, error) {
	result, err := deps.Indexer.EnsureIndexBuilt(deps.Ctx)
	if err != nil {
		return nil, err
	}
	if result.Built {
		printBuild(deps, result)
	}

	index, err := deps.Store.Open(deps.Ctx)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	return slog.NewLoggingVectorIndex(index, deps.Logger), nil
}

// newAsker assembles the question answering pipeline over index.
func newAsker(deps *Dependencies, index docchat.VectorIndex) docchat.Asker {
	service := &rag.Service{
		Retriever: &rag.Retriever{
			Embedder: deps.Embedder,
			Index:    index,
			TopK:     deps.Config.TopK,
		},
		Generator: deps.Generator,
	}
	return slog.NewLoggingAsker(service, deps.Logger)
}
