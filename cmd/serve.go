package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/KoblerS/webflow-exporter/internal/server"
)

// newServeCmd creates the 'serve' subcommand, a local preview server for an
// exported mirror.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves an exported mirror over HTTP",
		Long: `Serves a previously exported mirror directory, resolving paths the way the
live site did: / maps to index.html and extensionless paths to their
.html page. Prometheus metrics are exposed on /metrics.`,

		RunE: runServeCommand,
	}

	cmd.Flags().String("dir", "", "mirror directory to serve")
	cmd.Flags().Int("port", 0, "port to listen on")

	v := viper.GetViper()
	cobra.CheckErr(v.BindPFlag("output", cmd.Flags().Lookup("dir")))
	cobra.CheckErr(v.BindPFlag("server.port", cmd.Flags().Lookup("port")))

	return cmd
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	app, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := app.Config

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.New(cfg.Output, app.Logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("preview server listening",
			zap.String("addr", srv.Addr),
			zap.String("dir", cfg.Output),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-cmd.Context().Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve mirror: %w", err)
	}
}
