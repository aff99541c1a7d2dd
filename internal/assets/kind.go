// Package assets classifies CDN resources and maps them to local mirror paths.
package assets

import "strings"

// Kind is the asset category, doubling as the output folder name.
type Kind string

// Asset kinds recognized by the exporter.
const (
	KindStylesheet Kind = "css"
	KindScript     Kind = "js"
	KindImage      Kind = "images"
	KindMedia      Kind = "media"
	KindFont       Kind = "fonts"
)

// Folder returns the mirror subdirectory for the kind.
func (k Kind) Folder() string {
	return string(k)
}

// PageKinds are the kinds collected from markup during the crawl.
// Fonts only surface later, inside downloaded stylesheets.
var PageKinds = []Kind{KindStylesheet, KindScript, KindImage, KindMedia}

var fontExtensions = map[string]struct{}{
	".woff": {}, ".woff2": {}, ".ttf": {}, ".otf": {}, ".eot": {},
}

var mediaExtensions = map[string]struct{}{
	".mp4": {}, ".webm": {}, ".mp3": {}, ".ogg": {}, ".wav": {}, ".mov": {}, ".m4a": {},
}

// KindForExtension picks the target folder for an asset discovered by
// extension alone, e.g. inside stylesheet text. Unknown extensions land in
// images, matching the dominant case of CSS background references.
func KindForExtension(ext string) Kind {
	ext = strings.ToLower(ext)
	if _, ok := fontExtensions[ext]; ok {
		return KindFont
	}
	if _, ok := mediaExtensions[ext]; ok {
		return KindMedia
	}
	switch ext {
	case ".js":
		return KindScript
	case ".css":
		return KindStylesheet
	default:
		return KindImage
	}
}
