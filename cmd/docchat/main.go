package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/crawl"
	"github.com/fwojciec/docchat/gemini"
	"github.com/fwojciec/docchat/goquery"
	"github.com/fwojciec/docchat/htmltomarkdown"
	dchttp "github.com/fwojciec/docchat/http"
	"github.com/fwojciec/docchat/openai"
	"github.com/fwojciec/docchat/pdf"
	"github.com/fwojciec/docchat/rag"
	"github.com/fwojciec/docchat/readability"
	"github.com/fwojciec/docchat/rod"
	dcslog "github.com/fwojciec/docchat/slog"
	"github.com/fwojciec/docchat/sqlite"
	"github.com/fwojciec/docchat/trafilatura"
	"github.com/fwojciec/docchat/xxhash"
	_ "go.uber.org/automaxprocs"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// ConfigPath is read when present. Set before calling Run().
	ConfigPath string

	// Services for end-to-end testing. When set they replace the
	// configured providers and crawler.
	Loader    docchat.DocumentLoader
	Embedder  docchat.Embedder
	Generator docchat.Generator

	gemini  *genai.Client
	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: DefaultConfigFile,
	}
}

// Close releases the resources opened by Run. Run calls it before
// returning.
func (m *Main) Close() error {
	var errs []error
	for _, c := range m.closers {
		errs = append(errs, c.Close())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	var configPaths []string
	if m.ConfigPath != "" {
		configPaths = append(configPaths, m.ConfigPath)
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docchat"),
		kong.Description("Answer questions about documentation sites"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{"config_file": DefaultConfigFile},
		kong.Bind(deps),
		kong.Configuration(TOML, configPaths...),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docchat --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	cfg := &cli.Config
	if err := cfg.Validate(); err != nil {
		return err
	}
	deps.Config = cfg
	deps.Logger = cfg.NewLogger(stderr)
	deps.Store = sqlite.NewStore(cfg.IndexDir)

	cmd := strings.Fields(kongCtx.Command())[0]
	if cmd == "inspect" {
		return kongCtx.Run(deps)
	}

	// Providers are checked before the crawler starts a browser.
	if cmd != "crawl" {
		embedder, err := m.embedder(ctx, cfg)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: --embedding-provider=xxhash works offline without a key")
			return err
		}
		deps.Embedder = dcslog.NewLoggingEmbedder(rag.NewLimitedEmbedder(embedder, cfg.MaxInflight), deps.Logger)
	}
	if cmd == "serve" || cmd == "ask" {
		generator, err := m.generator(ctx, cfg)
		if err != nil {
			return err
		}
		deps.Generator = dcslog.NewLoggingGenerator(rag.NewLimitedGenerator(generator, cfg.MaxInflight), deps.Logger)
	}

	deps.Loader, err = m.loader(cfg, deps.Logger)
	if err != nil {
		return err
	}
	if cmd == "crawl" {
		return kongCtx.Run(deps)
	}

	splitter, err := docchat.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}
	policy, err := docchat.ParseReindexPolicy(cfg.Reindex)
	if err != nil {
		return err
	}
	deps.Indexer = &rag.Indexer{
		Loader:     deps.Loader,
		Splitter:   splitter,
		Embedder:   deps.Embedder,
		Store:      deps.Store,
		Config:     cfg.IngestConfig(deps.Embedder.Model()),
		Policy:     policy,
		EmbedBatch: cfg.EmbedBatch,
		Logger:     deps.Logger,
	}
	if cfg.CountTokens {
		model := gemini.DefaultTokenizerModel
		if cfg.GenerationProvider == "gemini" && cfg.GenerationModel != "" {
			model = cfg.GenerationModel
		}
		counter, err := gemini.NewTokenCounter(model)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}
		deps.Indexer.TokenCounter = counter
	}

	return kongCtx.Run(deps)
}

func (m *Main) embedder(ctx context.Context, cfg *Config) (docchat.Embedder, error) {
	if m.Embedder != nil {
		return m.Embedder, nil
	}

	switch cfg.EmbeddingProvider {
	case "xxhash":
		e, err := xxhash.NewEmbedder(cfg.EmbeddingDimensions)
		if err != nil {
			return nil, err
		}
		return e, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" && cfg.OpenAIBaseURL == "" {
			return nil, docchat.Errorf(docchat.EINVALID, "OPENAI_API_KEY not set")
		}
		var opts []openai.EmbedderOption
		if cfg.EmbeddingDimensions > 0 {
			opts = append(opts, openai.WithDimensions(cfg.EmbeddingDimensions))
		}
		return openai.NewEmbedder(openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), cfg.EmbeddingModel, opts...), nil
	default:
		client, err := m.geminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		var opts []gemini.EmbedderOption
		if cfg.EmbeddingDimensions > 0 {
			opts = append(opts, gemini.WithDimensions(cfg.EmbeddingDimensions))
		}
		return gemini.NewEmbedder(client, cfg.EmbeddingModel, opts...), nil
	}
}

func (m *Main) generator(ctx context.Context, cfg *Config) (docchat.Generator, error) {
	if m.Generator != nil {
		return m.Generator, nil
	}

	switch cfg.GenerationProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" && cfg.OpenAIBaseURL == "" {
			return nil, docchat.Errorf(docchat.EINVALID, "OPENAI_API_KEY not set")
		}
		return openai.NewGenerator(openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), cfg.GenerationModel), nil
	default:
		client, err := m.geminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return gemini.NewGenerator(client, cfg.GenerationModel), nil
	}
}

// geminiClient returns the client shared by the Gemini embedder and generator.
func (m *Main) geminiClient(ctx context.Context, cfg *Config) (*genai.Client, error) {
	if m.gemini != nil {
		return m.gemini, nil
	}
	if cfg.GeminiAPIKey == "" {
		return nil, docchat.Errorf(docchat.EINVALID, "GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}
	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	m.gemini = client
	return client, nil
}

// loader wires the crawler: fetcher, extraction mode, link discovery and
// politeness settings.
func (m *Main) loader(cfg *Config, logger *slog.Logger) (docchat.DocumentLoader, error) {
	if m.Loader != nil {
		return dcslog.NewLoggingLoader(m.Loader, logger), nil
	}

	var fetcher docchat.Fetcher
	if cfg.RenderJS {
		f, err := rod.NewFetcher(rod.WithTimeout(cfg.FetchTimeout))
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		fetcher = f
	} else {
		fetcher = dchttp.NewFetcher(dchttp.WithTimeout(cfg.FetchTimeout))
	}
	fetcher = dcslog.NewLoggingFetcher(fetcher, logger)
	m.closers = append(m.closers, fetcher)

	var extractor docchat.Extractor
	var converter docchat.Converter = htmltomarkdown.NewConverter()
	switch cfg.Extractor {
	case "trafilatura":
		extractor = trafilatura.NewExtractor()
	case "readability":
		extractor = readability.NewExtractor()
	default:
		extractor = goquery.NewExtractor()
		converter = goquery.NewTextConverter()
	}

	l := &crawl.Loader{
		Fetcher:       fetcher,
		Extractor:     pdf.NewExtractor(extractor),
		Converter:     converter,
		LinkSelectors: dcslog.NewLoggingRegistry(goquery.NewDefaultRegistry(), logger),
		RateLimiter:   crawl.NewDomainLimiter(cfg.Rate),
		Concurrency:   cfg.Concurrency,
		RetryDelays:   crawl.DefaultRetryDelays(),
		MaxPages:      cfg.MaxPages,
		Logger:        logger,
	}
	if cfg.Sitemap {
		l.Sitemaps = dcslog.NewLoggingSitemapService(dchttp.NewSitemapService(nil), logger)
	}
	return dcslog.NewLoggingLoader(l, logger), nil
}
