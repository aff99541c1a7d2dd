package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient() *Client {
	return NewClient(Config{UserAgent: "test-agent", Timeout: 5 * time.Second}, zap.NewNop())
}

func TestClientGet(t *testing.T) {
	t.Run("returns body and headers", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "test-agent", r.UserAgent())
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer srv.Close()

		resp, err := newTestClient().Get(context.Background(), srv.URL)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, []byte("<html></html>"), resp.Body)
		require.True(t, resp.IsHTML())
	})

	t.Run("non-2xx is an error with status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		resp, err := newTestClient().Get(context.Background(), srv.URL)
		require.Error(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("connection failure is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		_, err := newTestClient().Get(context.Background(), srv.URL)
		require.Error(t, err)
	})

	t.Run("non-html content type", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		}))
		defer srv.Close()

		resp, err := newTestClient().Get(context.Background(), srv.URL)
		require.NoError(t, err)
		require.False(t, resp.IsHTML())
	})
}
