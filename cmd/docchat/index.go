package main

import (
	"fmt"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/rag"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	build := deps.Indexer.EnsureIndexBuilt
	if c.Force {
		build = deps.Indexer.Rebuild
	}

	result, err := build(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docchat.ErrorMessage(err))
		return err
	}

	if !result.Built {
		fmt.Fprintf(deps.Stdout, "Index at %s kept (%s): %d documents, %d chunks\n",
			deps.Store.Path(), result.Reason, result.Manifest.Documents, result.Manifest.Chunks)
		return nil
	}
	printBuild(deps, result)
	return nil
}

func printBuild(deps *Dependencies, result *rag.BuildResult) {
	for _, seed := range result.Failed {
		fmt.Fprintf(deps.Stderr, "  skip %s\n", seed)
	}
	fmt.Fprintf(deps.Stdout, "Indexed %d documents (%d chunks) at %s (%s)\n",
		result.Manifest.Documents, result.Manifest.Chunks, deps.Store.Path(), result.Reason)
	if result.Tokens > 0 {
		fmt.Fprintf(deps.Stdout, "  %d tokens\n", result.Tokens)
	}
}
