package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docchat"
	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is read from the working directory when present.
const DefaultConfigFile = "docchat.toml"

// Config holds the settings shared by every command. Flags win over
// environment variables, which win over the config file.
type Config struct {
	Seeds        []string `name:"seed" env:"DOCCHAT_SEEDS" default:"https://segment.com/docs/,https://docs.mparticle.com/,https://docs.lytics.com/,https://docs.zeotap.com/home/en-us/" help:"Documentation seed URL (repeatable)."`
	Depth        int      `env:"DOCCHAT_DEPTH" default:"1" help:"Link levels followed from each seed."`
	ChunkSize    int      `env:"DOCCHAT_CHUNK_SIZE" default:"1000" help:"Chunk length in characters."`
	ChunkOverlap int      `env:"DOCCHAT_CHUNK_OVERLAP" default:"200" help:"Characters shared by consecutive chunks."`
	TopK         int      `name:"top-k" env:"DOCCHAT_TOP_K" default:"5" help:"Chunks retrieved per question."`

	EmbeddingProvider   string `env:"DOCCHAT_EMBEDDING_PROVIDER" enum:"gemini,openai,xxhash" default:"gemini" help:"Embedding provider (${enum})."`
	EmbeddingModel      string `env:"DOCCHAT_EMBEDDING_MODEL" help:"Embedding model. Empty uses the provider default."`
	EmbeddingDimensions int    `env:"DOCCHAT_EMBEDDING_DIMENSIONS" help:"Embedding size. Zero uses the model default."`
	GenerationProvider  string `env:"DOCCHAT_GENERATION_PROVIDER" enum:"gemini,openai" default:"gemini" help:"Generation provider (${enum})."`
	GenerationModel     string `env:"DOCCHAT_GENERATION_MODEL" help:"Generation model. Empty uses the provider default."`
	MaxInflight         int    `env:"DOCCHAT_MAX_INFLIGHT" default:"4" help:"Concurrent model calls per provider. Zero is unlimited."`
	EmbedBatch          int    `env:"DOCCHAT_EMBED_BATCH" default:"32" help:"Chunks per embedding request."`
	CountTokens         bool   `env:"DOCCHAT_COUNT_TOKENS" help:"Report the token count of indexed documents."`

	GeminiAPIKey  string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key."`
	OpenAIAPIKey  string `name:"openai-api-key" env:"OPENAI_API_KEY" help:"OpenAI API key."`
	OpenAIBaseURL string `name:"openai-base-url" env:"OPENAI_BASE_URL" help:"Base URL of an OpenAI compatible server."`

	IndexDir string `env:"DOCCHAT_INDEX_DIR" default:"./docchat_index" type:"path" help:"Index directory."`
	Reindex  string `env:"DOCCHAT_REINDEX" enum:"never,on-change" default:"never" help:"Rebuild an existing index: ${enum}."`

	Extractor    string        `env:"DOCCHAT_EXTRACTOR" enum:"text,trafilatura,readability" default:"text" help:"Page extraction mode (${enum})."`
	RenderJS     bool          `name:"render-js" env:"DOCCHAT_RENDER_JS" help:"Render pages in a headless browser."`
	Sitemap      bool          `env:"DOCCHAT_SITEMAP" help:"Seed crawls from sitemap.xml."`
	Rate         float64       `env:"DOCCHAT_RATE" default:"2" help:"Requests per second per host. Zero is unlimited."`
	Concurrency  int           `env:"DOCCHAT_CONCURRENCY" default:"4" help:"Pages fetched in parallel."`
	MaxPages     int           `env:"DOCCHAT_MAX_PAGES" default:"0" help:"Pages fetched per seed. Zero is unbounded."`
	FetchTimeout time.Duration `env:"DOCCHAT_FETCH_TIMEOUT" default:"10s" help:"Timeout per page fetch."`

	LogFormat string `env:"DOCCHAT_LOG_FORMAT" enum:"text,json" default:"text" help:"Log format (${enum})."`
	Verbose   bool   `short:"v" env:"DOCCHAT_VERBOSE" help:"Log debug output."`
}

// Validate checks the configuration before any network or model call.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return docchat.Errorf(docchat.EINVALID, "at least one seed URL required")
	}
	for _, seed := range c.Seeds {
		u, err := url.Parse(seed)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return docchat.Errorf(docchat.EINVALID, "invalid seed URL %q", seed)
		}
	}
	if c.Depth < 0 {
		return docchat.Errorf(docchat.EINVALID, "depth must not be negative, got %d", c.Depth)
	}
	if _, err := docchat.NewSplitter(c.ChunkSize, c.ChunkOverlap); err != nil {
		return err
	}
	if c.TopK <= 0 {
		return docchat.Errorf(docchat.EINVALID, "top-k must be positive, got %d", c.TopK)
	}
	if _, err := docchat.ParseReindexPolicy(c.Reindex); err != nil {
		return err
	}
	if c.EmbeddingDimensions < 0 {
		return docchat.Errorf(docchat.EINVALID, "embedding dimensions must not be negative, got %d", c.EmbeddingDimensions)
	}
	if c.EmbedBatch <= 0 {
		return docchat.Errorf(docchat.EINVALID, "embed batch must be positive, got %d", c.EmbedBatch)
	}
	if c.MaxInflight < 0 {
		return docchat.Errorf(docchat.EINVALID, "max inflight must not be negative, got %d", c.MaxInflight)
	}
	if c.Rate < 0 {
		return docchat.Errorf(docchat.EINVALID, "rate must not be negative, got %g", c.Rate)
	}
	if c.Concurrency <= 0 {
		return docchat.Errorf(docchat.EINVALID, "concurrency must be positive, got %d", c.Concurrency)
	}
	if c.MaxPages < 0 {
		return docchat.Errorf(docchat.EINVALID, "max pages must not be negative, got %d", c.MaxPages)
	}
	return nil
}

// IngestConfig returns the settings that determine index contents.
func (c *Config) IngestConfig(embeddingModel string) docchat.IngestConfig {
	return docchat.IngestConfig{
		Seeds:          c.Seeds,
		Depth:          c.Depth,
		ChunkSize:      c.ChunkSize,
		ChunkOverlap:   c.ChunkOverlap,
		EmbeddingModel: embeddingModel,
	}
}

// NewLogger returns a logger writing to w in the configured format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if c.Verbose {
		opts.Level = slog.LevelDebug
	}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// TOML loads flag values from a TOML document. Keys are flag names in
// either kebab or snake case. Tables are ignored. A flag whose environment
// variable is set is left to kong so that the environment takes precedence.
func TOML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := toml.NewDecoder(r).Decode(&values); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, env := range flag.Envs {
			if _, ok := os.LookupEnv(env); ok {
				return nil, nil
			}
		}
		raw, ok := values[flag.Name]
		if !ok {
			raw, ok = values[strings.ReplaceAll(flag.Name, "-", "_")]
		}
		if !ok {
			return nil, nil
		}
		return tomlValue(raw)
	}
	return f, nil
}

// tomlValue renders a decoded TOML value as the string kong would read
// from the command line.
func tomlValue(raw any) (any, error) {
	switch v := raw.(type) {
	case map[string]any:
		return nil, nil
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ","), nil
	default:
		return fmt.Sprint(v), nil
	}
}
