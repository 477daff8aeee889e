package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/docchat"
	dchttp "github.com/fwojciec/docchat/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	serve := func(t *testing.T, h http.HandlerFunc) *httptest.Server {
		t.Helper()
		srv := httptest.NewServer(h)
		t.Cleanup(srv.Close)
		return srv
	}

	t.Run("returns body and sends user agent", func(t *testing.T) {
		t.Parallel()
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<p>Segment is a CDP.</p>"))
		})

		body, err := dchttp.NewFetcher(dchttp.WithUserAgent("test-agent")).Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "<p>Segment is a CDP.</p>", body)
	})

	t.Run("maps status codes to error codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			status int
			want   string
		}{
			{http.StatusNotFound, docchat.ENOTFOUND},
			{http.StatusGone, docchat.ENOTFOUND},
			{http.StatusForbidden, docchat.EINVALID},
			{http.StatusTooManyRequests, docchat.EINTERNAL},
			{http.StatusBadGateway, docchat.EINTERNAL},
		}
		for _, tt := range tests {
			srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := dchttp.NewFetcher().Fetch(context.Background(), srv.URL)

			require.Error(t, err)
			assert.Equal(t, tt.want, docchat.ErrorCode(err), "status %d", tt.status)
		}
	})

	t.Run("rejects unsupported content types", func(t *testing.T) {
		t.Parallel()
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
		})

		_, err := dchttp.NewFetcher().Fetch(context.Background(), srv.URL)

		assert.Equal(t, docchat.EINVALID, docchat.ErrorCode(err))
	})

	t.Run("accepts PDFs", func(t *testing.T) {
		t.Parallel()
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		})

		body, err := dchttp.NewFetcher().Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4", body)
	})

	t.Run("truncates large bodies", func(t *testing.T) {
		t.Parallel()
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("a", 100)))
		})

		body, err := dchttp.NewFetcher(dchttp.WithMaxBodySize(10)).Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Len(t, body, 10)
	})

	t.Run("respects timeout", func(t *testing.T) {
		t.Parallel()
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		})

		_, err := dchttp.NewFetcher(dchttp.WithTimeout(10*time.Millisecond)).Fetch(context.Background(), srv.URL)

		require.Error(t, err)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := dchttp.NewFetcher().Fetch(ctx, srv.URL)

		require.Error(t, err)
	})
}
