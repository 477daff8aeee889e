package main

import (
	"fmt"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/fs"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	w := fs.NewWriter(c.Out)

	var written int
	for _, seed := range deps.Config.Seeds {
		docs, err := deps.Loader.Load(deps.Ctx, seed, deps.Config.Depth)
		if err != nil {
			if deps.Ctx.Err() != nil {
				return deps.Ctx.Err()
			}
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", seed, docchat.ErrorMessage(err))
			continue
		}
		for _, doc := range docs {
			path, err := w.Write(deps.Ctx, doc)
			if err != nil {
				return fmt.Errorf("writing %s: %w", doc.SourceURL, err)
			}
			fmt.Fprintln(deps.Stdout, path)
			written++
		}
	}

	if written == 0 {
		return docchat.Errorf(docchat.EINTERNAL, "no documents could be loaded from %d seeds", len(deps.Config.Seeds))
	}
	fmt.Fprintf(deps.Stdout, "Wrote %d pages to %s\n", written, c.Out)
	return nil
}
