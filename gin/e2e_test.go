package gin_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/crawl"
	dcgin "github.com/fwojciec/docchat/gin"
	"github.com/fwojciec/docchat/goquery"
	dchttp "github.com/fwojciec/docchat/http"
	"github.com/fwojciec/docchat/mock"
	"github.com/fwojciec/docchat/pdf"
	"github.com/fwojciec/docchat/rag"
	"github.com/fwojciec/docchat/sqlite"
	"github.com/fwojciec/docchat/xxhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contextEchoGenerator answers with the first retrieved chunk, so the
// answer shows which context reached the prompt.
func contextEchoGenerator() *mock.Generator {
	return &mock.Generator{
		GenerateFn: func(_ context.Context, prompt string) (string, error) {
			block := strings.Split(prompt, docchat.ContextSeparator)[1]
			return prompt + "\n" + docchat.AnswerMarker + " " + block, nil
		},
	}
}

func TestEndToEnd_Chat(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		switch r.URL.Path {
		case "/docs/":
			_, _ = w.Write([]byte(`<html><head><title>Segment</title></head><body>
<nav><a href="/docs/connections">Connections</a></nav>
<p>Segment is a CDP.</p>
</body></html>`))
		case "/docs/connections":
			_, _ = w.Write([]byte(`<html><body><p>Connections route events to destinations.</p></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(site.Close)

	seed := site.URL + "/docs/"
	embedder, err := xxhash.NewEmbedder(256)
	require.NoError(t, err)
	splitter, err := docchat.NewSplitter(docchat.DefaultChunkSize, docchat.DefaultChunkOverlap)
	require.NoError(t, err)
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "index"))

	ix := &rag.Indexer{
		Loader: &crawl.Loader{
			Fetcher:       dchttp.NewFetcher(),
			Extractor:     pdf.NewExtractor(goquery.NewExtractor()),
			Converter:     goquery.NewTextConverter(),
			LinkSelectors: goquery.NewDefaultRegistry(),
		},
		Splitter: splitter,
		Embedder: embedder,
		Store:    store,
		Config: docchat.IngestConfig{
			Seeds:          []string{seed},
			Depth:          1,
			ChunkSize:      splitter.Size(),
			ChunkOverlap:   splitter.Overlap(),
			EmbeddingModel: embedder.Model(),
		},
	}
	result, err := ix.EnsureIndexBuilt(ctx)
	require.NoError(t, err)
	require.True(t, result.Built)
	assert.Equal(t, 2, result.Manifest.Documents)

	index, err := store.Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	s := dcgin.NewServer()
	s.Index = index
	s.Asker = &rag.Service{
		Retriever: &rag.Retriever{Embedder: embedder, Index: index, TopK: docchat.DefaultTopK},
		Generator: contextEchoGenerator(),
	}

	t.Run("answers from the crawled page", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"question":"What is Segment?"}`))
		w := httptest.NewRecorder()
		s.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body["response"], "Segment is a CDP.")
		assert.NotContains(t, body["response"], "Question:")
	})

	t.Run("rejects empty question", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"question":""}`))
		w := httptest.NewRecorder()
		s.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("dimension mismatch in search is a server error", func(t *testing.T) {
		t.Parallel()

		small, err := xxhash.NewEmbedder(128)
		require.NoError(t, err)
		mismatched := dcgin.NewServer()
		mismatched.Asker = &rag.Service{
			Retriever: &rag.Retriever{Embedder: small, Index: index, TopK: docchat.DefaultTopK},
			Generator: contextEchoGenerator(),
		}

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"question":"What is Segment?"}`))
		w := httptest.NewRecorder()
		mismatched.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "dimensions")
	})

	t.Run("reports indexed chunks", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()
		s.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","chunks":2}`, w.Body.String())
	})
}
