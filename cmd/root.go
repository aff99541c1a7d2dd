// Package cmd defines the CLI commands for the webflow-exporter executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/KoblerS/webflow-exporter/internal/config"
	"github.com/KoblerS/webflow-exporter/internal/logging"
)

var cfgFile string

type appKeyType struct{}

var appKey appKeyType

// App bundles the services every command needs. It is built once in the root
// command's PersistentPreRunE and carried through the command context.
type App struct {
	Config config.Config
	Logger *zap.Logger
}

// Close flushes buffered log output.
func (a *App) Close() {
	_ = a.Logger.Sync()
}

// newApp is a variable so tests can substitute a mock factory.
var newApp = func(v *viper.Viper) (*App, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(logging.Options{
		Development: cfg.Logging.Development,
		Debug:       cfg.Logging.Debug,
		Silent:      cfg.Logging.Silent,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &App{Config: cfg, Logger: logger}, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webflow-exporter",
		Short: "Exports a Webflow-hosted site into a self-contained static mirror.",
		Long: `webflow-exporter crawls a Webflow-hosted site, downloads every page and
CDN asset it references, and rewrites the copies so the mirror works
entirely offline or from any static file host.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(viper.GetViper())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, app))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if app, ok := cmd.Context().Value(appKey).(*App); ok && app != nil {
				app.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is none; env vars use the WEBEXP_ prefix)")

	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

func resolveApp(ctx context.Context) (*App, error) {
	app, ok := ctx.Value(appKey).(*App)
	if !ok || app == nil {
		return nil, errors.New("application services not initialized")
	}
	return app, nil
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
