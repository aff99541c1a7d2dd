// Package rewrite mutates downloaded HTML and CSS so every asset-origin
// reference points at its mirrored local path.
package rewrite

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/KoblerS/webflow-exporter/internal/assets"
	"github.com/KoblerS/webflow-exporter/internal/fetch"
	"github.com/KoblerS/webflow-exporter/internal/urlutil"
)

// StylesheetRewriter resolves asset-origin references embedded in stylesheet
// text. References not yet in the identifier map are downloaded on the spot,
// extending the mirror with dependencies only the stylesheet knows about.
type StylesheetRewriter struct {
	origin     urlutil.Origin
	identifier *assets.Map
	downloader *fetch.Downloader
	logger     *zap.Logger
}

// NewStylesheetRewriter constructs a StylesheetRewriter.
func NewStylesheetRewriter(
	origin urlutil.Origin,
	identifier *assets.Map,
	downloader *fetch.Downloader,
	logger *zap.Logger,
) *StylesheetRewriter {
	return &StylesheetRewriter{
		origin:     origin,
		identifier: identifier,
		downloader: downloader,
		logger:     logger,
	}
}

// Rewrite scans the stylesheet at localPath for origin references, downloads
// any that are still unmapped, and substitutes every match with its local
// path. The file is rewritten in place.
func (r *StylesheetRewriter) Rewrite(ctx context.Context, localPath string) error {
	target := r.downloader.Abs(localPath)
	raw, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("read stylesheet %s: %w", target, err)
	}
	content := string(raw)

	pattern := r.origin.ScanPattern()
	for _, match := range pattern.FindAllString(content, -1) {
		ref := trimMatchArtifacts(match)
		sourceURL, ok := r.normalizeMatch(ref)
		if !ok {
			continue
		}
		if r.identifier.Known(sourceURL) {
			continue
		}
		kind := assets.KindForExtension(path.Ext(urlutil.BareFilename(sourceURL)))
		local := r.identifier.Assign(sourceURL, kind)
		if err := r.downloader.Download(ctx, sourceURL, local); err != nil {
			r.logger.Warn("nested asset download failed",
				zap.String("stylesheet", localPath),
				zap.String("url", sourceURL),
				zap.Error(err),
			)
		}
	}

	rewritten := pattern.ReplaceAllStringFunc(content, func(match string) string {
		ref := trimMatchArtifacts(match)
		sourceURL, ok := r.normalizeMatch(ref)
		if !ok {
			return match
		}
		if local, ok := r.identifier.Resolve(sourceURL); ok {
			return local
		}
		unresolvedReferences.Inc()
		r.logger.Warn("unresolved stylesheet reference left as-is",
			zap.String("stylesheet", localPath),
			zap.String("url", sourceURL),
		)
		return match
	})

	if err := os.WriteFile(target, []byte(rewritten), 0o600); err != nil {
		return fmt.Errorf("write stylesheet %s: %w", target, err)
	}
	return nil
}

// normalizeMatch turns a scanned span into a canonical source URL. Matches
// without a filename (bare host mentions) are not downloadable assets.
func (r *StylesheetRewriter) normalizeMatch(ref string) (string, bool) {
	abs := urlutil.Absolute(ref)
	if !r.origin.Matches(abs) {
		return "", false
	}
	canonical, err := urlutil.Canonicalize(nil, abs)
	if err != nil {
		return "", false
	}
	if urlutil.BareFilename(canonical) == "" {
		return "", false
	}
	return canonical, true
}

// trimMatchArtifacts drops trailing whitespace and URL-encoded space
// artifacts that the scan pattern can pick up after a reference.
func trimMatchArtifacts(match string) string {
	trimmed := strings.TrimRight(match, " \t")
	for strings.HasSuffix(trimmed, "%20") {
		trimmed = strings.TrimSuffix(trimmed, "%20")
	}
	return trimmed
}
