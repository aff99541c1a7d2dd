package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/KoblerS/webflow-exporter/internal/fetch"
	"github.com/KoblerS/webflow-exporter/internal/urlutil"
)

// Crawler walks a site's same-domain link graph depth-first and collects the
// asset-origin references encountered on each page.
type Crawler struct {
	getter fetch.Getter
	origin urlutil.Origin
	logger *zap.Logger
}

// New constructs a Crawler.
func New(getter fetch.Getter, origin urlutil.Origin, logger *zap.Logger) *Crawler {
	return &Crawler{
		getter: getter,
		origin: origin,
		logger: logger,
	}
}

// Crawl discovers every reachable page within the seed's domain. Traversal
// uses an explicit stack instead of recursion: anchors are pushed in reverse
// document order, which preserves the depth-first, document-order visit
// sequence. Per-page failures are logged and skipped; the crawl itself only
// fails on a malformed seed or a canceled context.
func (c *Crawler) Crawl(ctx context.Context, seed string) (*State, error) {
	canonicalSeed, err := urlutil.Canonicalize(nil, seed)
	if err != nil {
		return nil, fmt.Errorf("canonicalize seed: %w", err)
	}
	seedURL, err := url.Parse(canonicalSeed)
	if err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	state := NewState()
	stack := []string{canonicalSeed}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return state, fmt.Errorf("crawl canceled: %w", err)
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !state.MarkVisited(current) {
			continue
		}

		links := c.visit(ctx, current, seedURL, state)
		// Reverse push keeps document order at the top of the stack.
		for i := len(links) - 1; i >= 0; i-- {
			if !state.Visited(links[i]) {
				stack = append(stack, links[i])
			}
		}
	}

	return state, nil
}

// visit fetches one page, records it, collects its assets, and returns the
// same-domain links found in document order.
func (c *Crawler) visit(ctx context.Context, pageURL string, seedURL *url.URL, state *State) []string {
	resp, err := c.getter.Get(ctx, pageURL)
	if err != nil {
		crawlErrors.Inc()
		c.logger.Warn("page fetch failed, skipping",
			zap.String("url", pageURL),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return nil
	}
	if !resp.IsHTML() {
		c.logger.Debug("skipping non-html response",
			zap.String("url", pageURL),
			zap.String("content_type", resp.Headers.Get("Content-Type")),
		)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		crawlErrors.Inc()
		c.logger.Warn("page parse failed, skipping", zap.String("url", pageURL), zap.Error(err))
		return nil
	}

	state.AddPage(pageURL)
	pagesCrawled.Inc()
	c.logger.Info("scanned page", zap.String("url", pageURL))

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	c.collectAssets(doc, base, state)

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		canonical, err := urlutil.Canonicalize(base, href)
		if err != nil {
			return
		}
		target, err := url.Parse(canonical)
		if err != nil {
			return
		}
		if urlutil.SameHost(seedURL, target) {
			links = append(links, canonical)
		}
	})
	return links
}
