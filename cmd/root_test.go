package cmd

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KoblerS/webflow-exporter/internal/config"
)

func withStubApp(t *testing.T, cfg config.Config) {
	t.Helper()
	restore := newApp
	t.Cleanup(func() { newApp = restore })
	newApp = func(_ *viper.Viper) (*App, error) {
		return &App{Config: cfg, Logger: zap.NewNop()}, nil
	}
}

func TestRootRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0, 2)
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	require.Contains(t, names, "export")
	require.Contains(t, names, "serve")
}

func TestExportRequiresSeedURL(t *testing.T) {
	withStubApp(t, config.Config{
		Output:  t.TempDir(),
		Crawler: config.CrawlerConfig{Concurrency: 1, UserAgent: "test"},
		HTTP:    config.HTTPConfig{TimeoutSeconds: 1},
		Export:  config.ExportConfig{AssetOrigin: "website-files.com"},
		Server:  config.ServerConfig{Port: 8080},
	})

	root := newRootCmd()
	root.SetArgs([]string{"export"})
	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "seed URL")
}
