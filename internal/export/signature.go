package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/KoblerS/webflow-exporter/internal/fetch"
	"github.com/KoblerS/webflow-exporter/internal/urlutil"
)

// VerifySite fetches the seed once and checks for Webflow indicators:
// asset-origin stylesheet/script references or a Webflow generator meta tag.
// Sites without any indicator are rejected before the crawl begins.
func VerifySite(ctx context.Context, getter fetch.Getter, origin urlutil.Origin, seed string) error {
	resp, err := getter.Get(ctx, seed)
	if err != nil {
		return fmt.Errorf("fetch seed %s: %w", seed, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return fmt.Errorf("parse seed %s: %w", seed, err)
	}

	var indicators []string

	if hasOriginRef(doc, "link[href]", "href", origin) {
		indicators = append(indicators, "asset-origin links")
	}
	if hasOriginRef(doc, "script[src]", "src", origin) {
		indicators = append(indicators, "asset-origin scripts")
	}
	if generator, ok := doc.Find(`meta[name="generator"]`).Attr("content"); ok {
		if strings.Contains(strings.ToLower(generator), "webflow") {
			indicators = append(indicators, "Webflow meta generator")
		}
	}

	if len(indicators) == 0 {
		return fmt.Errorf("no Webflow indicators found at %s: expected %s references or a Webflow generator tag",
			seed, origin.Host)
	}
	return nil
}

func hasOriginRef(doc *goquery.Document, selector, attr string, origin urlutil.Origin) bool {
	found := false
	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if ref, ok := sel.Attr(attr); ok && origin.Matches(ref) {
			found = true
			return false
		}
		return true
	})
	return found
}
