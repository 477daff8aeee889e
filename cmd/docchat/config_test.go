package main_test

import (
	"testing"

	"github.com/fwojciec/docchat"
	main "github.com/fwojciec/docchat/cmd/docchat"
	"github.com/stretchr/testify/assert"
)

func validConfig() main.Config {
	return main.Config{
		Seeds:        []string{"https://segment.com/docs/"},
		Depth:        1,
		ChunkSize:    1000,
		ChunkOverlap: 200,
		TopK:         5,
		Reindex:      "never",
		EmbedBatch:   32,
		Concurrency:  4,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*main.Config)
		want   string
	}{
		{name: "valid", modify: func(*main.Config) {}},
		{name: "no seeds", modify: func(c *main.Config) { c.Seeds = nil }, want: "at least one seed"},
		{name: "relative seed", modify: func(c *main.Config) { c.Seeds = []string{"/docs"} }, want: "invalid seed URL"},
		{name: "ftp seed", modify: func(c *main.Config) { c.Seeds = []string{"ftp://example.com/"} }, want: "invalid seed URL"},
		{name: "negative depth", modify: func(c *main.Config) { c.Depth = -1 }, want: "depth"},
		{name: "overlap equals size", modify: func(c *main.Config) { c.ChunkOverlap = 1000 }, want: "chunk overlap"},
		{name: "zero chunk size", modify: func(c *main.Config) { c.ChunkSize = 0 }, want: "chunk size"},
		{name: "zero top k", modify: func(c *main.Config) { c.TopK = 0 }, want: "top-k"},
		{name: "unknown reindex policy", modify: func(c *main.Config) { c.Reindex = "always" }, want: "reindex policy"},
		{name: "zero embed batch", modify: func(c *main.Config) { c.EmbedBatch = 0 }, want: "embed batch"},
		{name: "negative rate", modify: func(c *main.Config) { c.Rate = -1 }, want: "rate"},
		{name: "zero concurrency", modify: func(c *main.Config) { c.Concurrency = 0 }, want: "concurrency"},
		{name: "negative max pages", modify: func(c *main.Config) { c.MaxPages = -1 }, want: "max pages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()

			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, docchat.EINVALID, docchat.ErrorCode(err))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestConfig_IngestConfig(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	got := cfg.IngestConfig("xxhash:words@512")

	assert.Equal(t, docchat.IngestConfig{
		Seeds:          []string{"https://segment.com/docs/"},
		Depth:          1,
		ChunkSize:      1000,
		ChunkOverlap:   200,
		EmbeddingModel: "xxhash:words@512",
	}, got)
}
