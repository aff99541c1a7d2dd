package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KoblerS/webflow-exporter/internal/export"
	"github.com/KoblerS/webflow-exporter/internal/fetch"
	"github.com/KoblerS/webflow-exporter/internal/urlutil"
)

// newExportCmd creates the 'export' subcommand, which runs the full
// crawl-and-rewrite pipeline against a single site.
func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Crawls a Webflow site and writes a self-contained mirror",
		Long: `Crawls every same-domain page reachable from the given URL, downloads the
CDN assets they reference, rewrites all references to mirror-local paths,
and writes the result to the output directory.`,

		RunE: runExportCommand,
	}

	cmd.Flags().String("url", "", "seed URL of the Webflow site (https required)")
	cmd.Flags().String("output", "", "output directory for the mirror")
	cmd.Flags().Bool("remove-badge", false, "patch mirrored scripts so the Webflow badge is not shown")
	cmd.Flags().Bool("generate-sitemap", false, "write a sitemap.xml listing the crawled pages")
	cmd.Flags().Bool("silent", false, "only log errors")
	cmd.Flags().Bool("debug", false, "enable debug logging")

	v := viper.GetViper()
	bindings := map[string]string{
		"url":                     "url",
		"output":                  "output",
		"export.remove_badge":     "remove-badge",
		"export.generate_sitemap": "generate-sitemap",
		"logging.silent":          "silent",
		"logging.debug":           "debug",
	}
	for key, flag := range bindings {
		cobra.CheckErr(v.BindPFlag(key, cmd.Flags().Lookup(flag)))
	}

	return cmd
}

func runExportCommand(cmd *cobra.Command, _ []string) error {
	app, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := app.Config
	if cfg.URL == "" {
		return errors.New("a seed URL is required, pass --url or set WEBEXP_URL")
	}

	client := fetch.NewClient(fetch.Config{
		UserAgent: cfg.Crawler.UserAgent,
		Timeout:   cfg.Timeout(),
	}, app.Logger)

	exporter := export.New(export.Config{
		OutputDir:       cfg.Output,
		Origin:          urlutil.Origin{Host: cfg.Export.AssetOrigin},
		Concurrency:     cfg.Crawler.Concurrency,
		RemoveBadge:     cfg.Export.RemoveBadge,
		GenerateSitemap: cfg.Export.GenerateSitemap,
	}, client, app.Logger)

	if err := exporter.Run(cmd.Context(), cfg.URL); err != nil {
		return fmt.Errorf("export %s: %w", cfg.URL, err)
	}
	return nil
}
