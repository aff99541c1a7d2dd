package rewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/KoblerS/webflow-exporter/internal/assets"
	"github.com/KoblerS/webflow-exporter/internal/urlutil"
)

// documentTargets lists the asset-bearing element shapes rewritten in
// downloaded pages. Integrity attributes are only dropped where subresource
// checks exist (stylesheets and scripts); the rewritten local content no
// longer matches the original checksum.
var documentTargets = []struct {
	selector       string
	attr           string
	stripIntegrity bool
}{
	{`link[rel="stylesheet"]`, "href", true},
	{`link[rel="apple-touch-icon"], link[rel="shortcut icon"]`, "href", false},
	{`script[src]`, "src", true},
	{`img[src]`, "src", false},
	{`video[src], audio[src]`, "src", false},
}

// DocumentRewriter substitutes asset-origin references in downloaded HTML
// with their mapped local paths.
type DocumentRewriter struct {
	origin     urlutil.Origin
	identifier *assets.Map
	root       string
	logger     *zap.Logger
}

// NewDocumentRewriter constructs a DocumentRewriter writing under root.
func NewDocumentRewriter(
	origin urlutil.Origin,
	identifier *assets.Map,
	root string,
	logger *zap.Logger,
) *DocumentRewriter {
	return &DocumentRewriter{
		origin:     origin,
		identifier: identifier,
		root:       root,
		logger:     logger,
	}
}

// Rewrite loads the page at localPath, rewrites every mapped asset-origin
// reference, and writes the reserialized markup back in place. Unmapped
// references are left untouched and surfaced as warnings.
func (d *DocumentRewriter) Rewrite(localPath string) error {
	target := d.abs(localPath)
	raw, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("read page %s: %w", target, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return fmt.Errorf("parse page %s: %w", target, err)
	}

	for _, group := range documentTargets {
		doc.Find(group.selector).Each(func(_ int, sel *goquery.Selection) {
			ref, ok := sel.Attr(group.attr)
			if !ok || !d.origin.Matches(ref) {
				return
			}
			canonical, err := urlutil.Canonicalize(nil, urlutil.Absolute(ref))
			if err != nil {
				return
			}
			local, ok := d.identifier.Resolve(canonical)
			if !ok {
				unresolvedReferences.Inc()
				d.logger.Warn("unresolved document reference left as-is",
					zap.String("page", localPath),
					zap.String("url", ref),
				)
				return
			}
			sel.SetAttr(group.attr, local)
			if group.stripIntegrity {
				sel.RemoveAttr("integrity")
			}
		})
	}

	markup, err := doc.Html()
	if err != nil {
		return fmt.Errorf("serialize page %s: %w", target, err)
	}
	if err := os.WriteFile(target, []byte(markup), 0o600); err != nil {
		return fmt.Errorf("write page %s: %w", target, err)
	}
	return nil
}

func (d *DocumentRewriter) abs(localPath string) string {
	return filepath.Join(d.root, filepath.FromSlash(strings.TrimPrefix(localPath, "/")))
}
