package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/rag"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *Config

	Store     docchat.IndexStore
	Loader    docchat.DocumentLoader
	Indexer   *rag.Indexer
	Embedder  docchat.Embedder
	Generator docchat.Generator
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	ConfigFile kong.ConfigFlag `name:"config" placeholder:"PATH" help:"TOML config file (default ${config_file} when present)."`
	Config     Config          `embed:""`

	Serve   ServeCmd   `cmd:"" help:"Build the index if needed and serve the chat API"`
	Index   IndexCmd   `cmd:"" help:"Build the index"`
	Ask     AskCmd     `cmd:"" help:"Answer one question from the index"`
	Inspect InspectCmd `cmd:"" help:"Show the persisted index"`
	Crawl   CrawlCmd   `cmd:"" help:"Crawl the seeds and write the extracted pages to disk"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr         string   `env:"DOCCHAT_ADDR" default:":8000" help:"Listen address."`
	AllowOrigins []string `name:"allow-origin" env:"DOCCHAT_ALLOW_ORIGINS" help:"CORS origin (repeatable). Empty allows all."`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Force bool `short:"f" help:"Rebuild even if an index exists"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the documentation"`
}

// InspectCmd is the "inspect" subcommand.
type InspectCmd struct {
	Document string `placeholder:"URL" help:"Print the indexed text of one page instead of the summary."`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Out string `short:"o" default:"./docchat_pages" type:"path" help:"Output directory."`
}
