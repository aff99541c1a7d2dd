package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDownloaderDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	t.Run("writes file and creates parents", func(t *testing.T) {
		root := t.TempDir()
		d := NewDownloader(newTestClient(), root, zap.NewNop())

		err := d.Download(context.Background(), srv.URL+"/a/logo.png", "/images/abc.png")
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(root, "images", "abc.png"))
		require.NoError(t, err)
		require.Equal(t, []byte("payload"), data)
	})

	t.Run("fetch failure surfaces but leaves no file", func(t *testing.T) {
		root := t.TempDir()
		d := NewDownloader(newTestClient(), root, zap.NewNop())

		err := d.Download(context.Background(), srv.URL+"/missing.png", "/images/missing.png")
		require.Error(t, err)
		_, statErr := os.Stat(filepath.Join(root, "images", "missing.png"))
		require.True(t, os.IsNotExist(statErr))
	})

	t.Run("file occupying the parent path is a conflict", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "images"), []byte("in the way"), 0o600))
		d := NewDownloader(newTestClient(), root, zap.NewNop())

		err := d.Download(context.Background(), srv.URL+"/a/logo.png", "/images/abc.png")
		require.ErrorIs(t, err, ErrFilesystemConflict)
	})
}
