package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/urlvault"
	urlvaulthttp "github.com/fwojciec/urlvault/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := urlvaulthttp.NewFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", html)
	})

	t.Run("sends the default user agent", func(t *testing.T) {
		t.Parallel()

		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		fetcher := urlvaulthttp.NewFetcher()
		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, urlvaulthttp.DefaultUserAgent, got)
	})

	t.Run("sends a custom user agent", func(t *testing.T) {
		t.Parallel()

		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		fetcher := urlvaulthttp.NewFetcher(urlvaulthttp.WithUserAgent("urlvault-test"))
		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "urlvault-test", got)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := urlvaulthttp.NewFetcher(urlvaulthttp.WithTimeout(10 * time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		}))
		defer server.Close()

		fetcher := urlvaulthttp.NewFetcher()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, server.URL)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("returns fetch error for 4xx and 5xx status codes", func(t *testing.T) {
		t.Parallel()

		for _, status := range []int{http.StatusForbidden, http.StatusNotFound, http.StatusBadGateway} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))

			_, err := urlvaulthttp.NewFetcher().Fetch(context.Background(), server.URL)
			server.Close()

			require.Error(t, err)
			assert.Equal(t, urlvault.EFETCH, urlvault.ErrorCode(err))
			assert.Equal(t, fmt.Sprintf("HTTP %d when fetching URL", status), urlvault.ErrorMessage(err))
		}
	})

	t.Run("accepts 3xx redirects to a successful page", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("moved"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		html, err := urlvaulthttp.NewFetcher().Fetch(context.Background(), server.URL+"/old")
		require.NoError(t, err)
		assert.Equal(t, "moved", html)
	})
}
