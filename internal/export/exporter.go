// Package export orchestrates the mirror pipeline: discover pages, download
// assets, rewrite stylesheets and documents, and run post-processing.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KoblerS/webflow-exporter/internal/assets"
	"github.com/KoblerS/webflow-exporter/internal/crawler"
	"github.com/KoblerS/webflow-exporter/internal/fetch"
	"github.com/KoblerS/webflow-exporter/internal/rewrite"
	"github.com/KoblerS/webflow-exporter/internal/urlutil"
)

// Config holds the settings for one export run.
type Config struct {
	OutputDir       string
	Origin          urlutil.Origin
	Concurrency     int
	RemoveBadge     bool
	GenerateSitemap bool
}

// Exporter runs the crawl-and-rewrite pipeline against a seed URL.
type Exporter struct {
	cfg         Config
	getter      fetch.Getter
	downloader  *fetch.Downloader
	crawler     *crawler.Crawler
	identifier  *assets.Map
	stylesheets *rewrite.StylesheetRewriter
	documents   *rewrite.DocumentRewriter
	logger      *zap.Logger
}

// New wires an Exporter from its collaborators.
func New(cfg Config, getter fetch.Getter, logger *zap.Logger) *Exporter {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	identifier := assets.NewMap()
	downloader := fetch.NewDownloader(getter, cfg.OutputDir, logger)
	return &Exporter{
		cfg:         cfg,
		getter:      getter,
		downloader:  downloader,
		crawler:     crawler.New(getter, cfg.Origin, logger),
		identifier:  identifier,
		stylesheets: rewrite.NewStylesheetRewriter(cfg.Origin, identifier, downloader, logger),
		documents:   rewrite.NewDocumentRewriter(cfg.Origin, identifier, cfg.OutputDir, logger),
		logger:      logger,
	}
}

// Run executes the full pipeline. Per-item failures are logged and skipped;
// the run only fails on a rejected seed, an unusable output directory, or a
// canceled context. Phase order is fixed: all non-HTML assets are fetched and
// stylesheets rewritten before the first HTML page is downloaded, because
// document rewriting depends on a complete identifier map.
func (e *Exporter) Run(ctx context.Context, seed string) error {
	if err := VerifySite(ctx, e.getter, e.cfg.Origin, seed); err != nil {
		return fmt.Errorf("verify site: %w", err)
	}
	if err := prepareOutputDir(e.cfg.OutputDir); err != nil {
		return fmt.Errorf("prepare output dir: %w", err)
	}

	state, err := e.crawler.Crawl(ctx, seed)
	if err != nil {
		return fmt.Errorf("crawl: %w", err)
	}
	e.logger.Info("discovery complete",
		zap.Int("pages", len(state.Pages())),
		zap.Int("assets", state.AssetCount()),
	)

	e.fetchAssets(ctx, state)
	e.processStylesheets(ctx, state)
	e.processPages(ctx, state)

	if e.cfg.GenerateSitemap {
		if err := WriteSitemap(e.cfg.OutputDir, state.Pages(), time.Now().UTC()); err != nil {
			e.logger.Error("sitemap generation failed", zap.Error(err))
		}
	}
	if e.cfg.RemoveBadge {
		if err := RemoveBadge(e.cfg.OutputDir, e.logger); err != nil {
			e.logger.Error("badge removal failed", zap.Error(err))
		}
	}

	e.logger.Info("export complete", zap.String("output", e.cfg.OutputDir))
	return nil
}

type assetJob struct {
	url  string
	kind assets.Kind
}

// fetchAssets downloads every non-stylesheet asset on a bounded worker pool.
// The identifier map is extended under its own lock, so concurrent workers
// never race on assignments.
func (e *Exporter) fetchAssets(ctx context.Context, state *crawler.State) {
	jobs := make(chan assetJob)
	var wg sync.WaitGroup
	for i := 0; i < e.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				local := e.identifier.Assign(job.url, job.kind)
				if err := e.downloader.Download(ctx, job.url, local); err != nil {
					e.logger.Warn("asset download failed, skipping",
						zap.String("url", job.url),
						zap.Error(err),
					)
				}
			}
		}()
	}

	for _, kind := range []assets.Kind{assets.KindImage, assets.KindMedia, assets.KindScript} {
		for _, u := range state.Assets(kind) {
			jobs <- assetJob{url: u, kind: kind}
		}
	}
	close(jobs)
	wg.Wait()
}

// processStylesheets downloads each stylesheet and rewrites it in place.
// Rewriting may extend the identifier map with nested assets, so this phase
// runs before any page is fetched.
func (e *Exporter) processStylesheets(ctx context.Context, state *crawler.State) {
	for _, u := range state.Assets(assets.KindStylesheet) {
		local := e.identifier.Assign(u, assets.KindStylesheet)
		if err := e.downloader.Download(ctx, u, local); err != nil {
			e.logger.Warn("stylesheet download failed, skipping",
				zap.String("url", u),
				zap.Error(err),
			)
			continue
		}
		if err := e.stylesheets.Rewrite(ctx, local); err != nil {
			e.logger.Warn("stylesheet rewrite failed, skipping",
				zap.String("url", u),
				zap.Error(err),
			)
		}
	}
}

// processPages downloads each crawled page and rewrites its references using
// the now-complete identifier map.
func (e *Exporter) processPages(ctx context.Context, state *crawler.State) {
	for _, page := range state.Pages() {
		localPath := urlutil.PagePath(page)
		if err := e.downloader.Download(ctx, page, localPath); err != nil {
			e.logger.Warn("page download failed, skipping",
				zap.String("url", page),
				zap.Error(err),
			)
			continue
		}
		if err := e.documents.Rewrite(localPath); err != nil {
			e.logger.Warn("page rewrite failed, skipping",
				zap.String("url", page),
				zap.Error(err),
			)
		}
	}
}

// prepareOutputDir creates the output directory, clearing any previous
// mirror contents.
func prepareOutputDir(root string) error {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return os.MkdirAll(root, 0o750)
	}
	if err != nil {
		return fmt.Errorf("read output dir: %w", err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(root, entry.Name())); err != nil {
			return fmt.Errorf("clear output dir: %w", err)
		}
	}
	return nil
}
