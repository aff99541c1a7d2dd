package crawler

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/KoblerS/webflow-exporter/internal/assets"
	"github.com/KoblerS/webflow-exporter/internal/urlutil"
)

// assetSelectors pairs each asset-bearing markup shape with its kind.
var assetSelectors = []struct {
	selector string
	attr     string
	kind     assets.Kind
}{
	{`link[rel="stylesheet"]`, "href", assets.KindStylesheet},
	{`link[rel="apple-touch-icon"], link[rel="shortcut icon"]`, "href", assets.KindImage},
	{`script[src]`, "src", assets.KindScript},
	{`img[src]`, "src", assets.KindImage},
	{`video[src], audio[src]`, "src", assets.KindMedia},
}

// collectAssets extracts typed asset references from a parsed page, keeping
// only those whose canonical URL belongs to the asset origin.
func (c *Crawler) collectAssets(doc *goquery.Document, base *url.URL, state *State) {
	for _, group := range assetSelectors {
		doc.Find(group.selector).Each(func(_ int, sel *goquery.Selection) {
			ref, ok := sel.Attr(group.attr)
			if !ok || ref == "" {
				return
			}
			canonical, err := urlutil.Canonicalize(base, ref)
			if err != nil {
				return
			}
			if !c.origin.Matches(canonical) {
				return
			}
			state.AddAsset(group.kind, canonical)
			c.logger.Debug("found asset",
				zap.String("kind", string(group.kind)),
				zap.String("url", canonical),
			)
		})
	}
}
