package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/docchat"
	main "github.com/fwojciec/docchat/cmd/docchat"
	"github.com/fwojciec/docchat/mock"
	"github.com/fwojciec/docchat/xxhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seed = "https://docs.example.com/"

// newTestMain returns a Main wired to an in-memory site, the offline
// embedder and a generator that answers with the first retrieved chunk.
func newTestMain(t *testing.T) *main.Main {
	t.Helper()

	embedder, err := xxhash.NewEmbedder(256)
	require.NoError(t, err)

	m := main.NewMain()
	m.ConfigPath = ""
	m.Loader = &mock.DocumentLoader{
		LoadFn: func(_ context.Context, seedURL string, depth int) ([]*docchat.Document, error) {
			return []*docchat.Document{
				docchat.NewDocument(seedURL, "Overview", "Example is a customer data platform."),
				docchat.NewDocument(seedURL+"sources", "Sources", "Sources send events to Example."),
			}, nil
		},
	}
	m.Embedder = embedder
	m.Generator = &mock.Generator{
		GenerateFn: func(_ context.Context, prompt string) (string, error) {
			block := strings.Split(prompt, docchat.ContextSeparator)[1]
			return prompt + " " + block, nil
		},
	}
	return m
}

// run executes args against a fresh Main and returns stdout.
func run(t *testing.T, ctx context.Context, m *main.Main, args ...string) (string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	err := m.Run(ctx, args, stdout, &bytes.Buffer{})
	return stdout.String(), err
}

func TestMain_Run_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	for _, cmd := range []string{"serve", "index", "ask", "inspect", "crawl"} {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
	assert.Contains(t, stdout.String(), "Usage:")
	assert.Contains(t, stdout.String(), "--chunk-size")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	err := main.NewMain().Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

	assert.ErrorContains(t, err, "no command specified")
}

func TestMain_Run_RejectsChunkConfigBeforeLoading(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	m.Loader = &mock.DocumentLoader{
		LoadFn: func(context.Context, string, int) ([]*docchat.Document, error) {
			t.Error("loader must not be called")
			return nil, nil
		},
	}

	_, err := run(t, context.Background(), m, "index",
		"--seed", seed,
		"--index-dir", filepath.Join(t.TempDir(), "index"),
		"--chunk-size", "100",
		"--chunk-overlap", "100",
	)

	assert.Equal(t, docchat.EINVALID, docchat.ErrorCode(err))
}

func TestMain_Run_IndexAskInspect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "index")
	common := []string{"--seed", seed, "--index-dir", dir}

	out, err := run(t, ctx, newTestMain(t), append([]string{"index"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 2 documents (2 chunks)")

	out, err = run(t, ctx, newTestMain(t), append([]string{"index"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "kept (exists)")

	out, err = run(t, ctx, newTestMain(t), append([]string{"index", "--force"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "(forced)")

	out, err = run(t, ctx, newTestMain(t), append([]string{"ask", "What is a customer data platform?"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "customer data platform")

	out, err = run(t, ctx, newTestMain(t), append([]string{"inspect"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "xxhash:words@256")
	assert.Regexp(t, `Documents:\s+2`, out)
	assert.Regexp(t, `Chunks:\s+2`, out)
}

func TestMain_Run_InspectDocument(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "index")
	content := strings.Repeat("Sources send events to destinations. ", 4)
	m := newTestMain(t)
	m.Loader = &mock.DocumentLoader{
		LoadFn: func(_ context.Context, seedURL string, _ int) ([]*docchat.Document, error) {
			return []*docchat.Document{docchat.NewDocument(seedURL, "Overview", content)}, nil
		},
	}
	common := []string{"--seed", seed, "--index-dir", dir, "--chunk-size", "50", "--chunk-overlap", "12"}

	out, err := run(t, ctx, m, append([]string{"index"}, common...)...)
	require.NoError(t, err)
	require.Contains(t, out, "Indexed 1 documents")

	out, err = run(t, ctx, newTestMain(t), append([]string{"inspect", "--document", seed}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, strings.TrimSpace(content))
	assert.NotContains(t, out, "Fingerprint")

	_, err = run(t, ctx, newTestMain(t), append([]string{"inspect", "--document", seed + "missing"}, common...)...)
	assert.Equal(t, docchat.ENOTFOUND, docchat.ErrorCode(err))
}

func TestMain_Run_ReindexOnChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "index")

	_, err := run(t, ctx, newTestMain(t), "index", "--seed", seed, "--index-dir", dir)
	require.NoError(t, err)

	out, err := run(t, ctx, newTestMain(t), "index", "--seed", seed, "--index-dir", dir, "--reindex", "on-change")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	out, err = run(t, ctx, newTestMain(t), "index", "--seed", seed, "--index-dir", dir, "--reindex", "on-change", "--depth", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "(config changed)")
}

func TestMain_Run_InspectWithoutIndex(t *testing.T) {
	t.Parallel()

	_, err := run(t, context.Background(), newTestMain(t), "inspect", "--index-dir", filepath.Join(t.TempDir(), "missing"))

	assert.Equal(t, docchat.ENOTFOUND, docchat.ErrorCode(err))
}

func TestMain_Run_MissingGeminiKey(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.ConfigPath = ""

	_, err := run(t, context.Background(), m, "index",
		"--seed", seed,
		"--index-dir", filepath.Join(t.TempDir(), "index"),
		"--gemini-api-key=",
	)

	assert.Equal(t, docchat.EINVALID, docchat.ErrorCode(err))
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}

func TestMain_Run_Crawl(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	stdout, err := run(t, context.Background(), newTestMain(t), "crawl", "--seed", seed, "--out", out)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 2 pages")
	content, err := os.ReadFile(filepath.Join(out, "docs.example.com", "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Example is a customer data platform.")
	assert.FileExists(t, filepath.Join(out, "docs.example.com", "sources.md"))
}

func TestMain_Run_Serve(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "index")
	_, err := run(t, context.Background(), newTestMain(t), "index", "--seed", seed, "--index-dir", dir)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	out, err := run(t, ctx, newTestMain(t), "serve", "--seed", seed, "--index-dir", dir, "--addr", "127.0.0.1:0")

	require.NoError(t, err)
	assert.Contains(t, out, "Serving on http://127.0.0.1:")
}

func TestMain_Run_ConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("values come from the file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "chunk_size = 100\nchunk-overlap = 100\n")
		m := newTestMain(t)
		m.ConfigPath = path

		_, err := run(t, context.Background(), m, "index", "--seed", seed, "--index-dir", filepath.Join(t.TempDir(), "index"))

		assert.Equal(t, docchat.EINVALID, docchat.ErrorCode(err))
		assert.ErrorContains(t, err, "chunk overlap (100) must be smaller than chunk size (100)")
	})

	t.Run("flags override the file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "chunk_size = 100\nchunk_overlap = 100\n")
		m := newTestMain(t)
		m.ConfigPath = path

		_, err := run(t, context.Background(), m, "index", "--seed", seed, "--index-dir", filepath.Join(t.TempDir(), "index"), "--chunk-overlap", "10")

		assert.NoError(t, err)
	})

	t.Run("seed lists are read", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "seed = [\"https://a.example.com/\", \"https://b.example.com/\"]\n")
		var seeds []string
		m := newTestMain(t)
		m.ConfigPath = path
		m.Loader = &mock.DocumentLoader{
			LoadFn: func(_ context.Context, seedURL string, _ int) ([]*docchat.Document, error) {
				seeds = append(seeds, seedURL)
				return []*docchat.Document{docchat.NewDocument(seedURL, "", "Content of "+seedURL)}, nil
			},
		}

		_, err := run(t, context.Background(), m, "index", "--index-dir", filepath.Join(t.TempDir(), "index"))

		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.example.com/", "https://b.example.com/"}, seeds)
	})

	t.Run("explicit config flag", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "top_k = 0\n")

		_, err := run(t, context.Background(), newTestMain(t), "index", "--config", path, "--seed", seed, "--index-dir", filepath.Join(t.TempDir(), "index"))

		assert.ErrorContains(t, err, "top-k must be positive")
	})
}

// Environment variables are process-wide, so this test does not run in parallel.
func TestMain_Run_EnvOverridesConfigFile(t *testing.T) {
	t.Setenv("DOCCHAT_CHUNK_OVERLAP", "100")

	path := writeConfig(t, "chunk_overlap = 10\nchunk_size = 100\n")
	m := newTestMain(t)
	m.ConfigPath = path

	_, err := run(t, context.Background(), m, "index", "--seed", seed, "--index-dir", filepath.Join(t.TempDir(), "index"))

	assert.Equal(t, docchat.EINVALID, docchat.ErrorCode(err))
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docchat.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
