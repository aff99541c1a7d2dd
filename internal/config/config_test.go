package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	require.Equal(t, "out", cfg.Output)
	require.Equal(t, 4, cfg.Crawler.Concurrency)
	require.Equal(t, "website-files.com", cfg.Export.AssetOrigin)
	require.Equal(t, 10*time.Second, cfg.Timeout())
	require.False(t, cfg.Export.RemoveBadge)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	payload := []byte(`
url: https://demo.webflow.io
output: mirror
crawler:
  concurrency: 8
export:
  generate_sitemap: true
`)
	require.NoError(t, os.WriteFile(path, payload, 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, "https://demo.webflow.io", cfg.URL)
	require.Equal(t, "mirror", cfg.Output)
	require.Equal(t, 8, cfg.Crawler.Concurrency)
	require.True(t, cfg.Export.GenerateSitemap)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		cfg, err := Load(viper.New(), "")
		require.NoError(t, err)
		return cfg
	}

	t.Run("rejects non-https url", func(t *testing.T) {
		cfg := base()
		cfg.URL = "http://demo.webflow.io"
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects zero concurrency", func(t *testing.T) {
		cfg := base()
		cfg.Crawler.Concurrency = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects empty asset origin", func(t *testing.T) {
		cfg := base()
		cfg.Export.AssetOrigin = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects debug together with silent", func(t *testing.T) {
		cfg := base()
		cfg.Logging.Debug = true
		cfg.Logging.Silent = true
		require.Error(t, cfg.Validate())
	})
}
