package export

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type sitemapEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type sitemapIndex struct {
	XMLName xml.Name       `xml:"urlset"`
	XMLNS   string         `xml:"xmlns,attr"`
	URLs    []sitemapEntry `xml:"url"`
}

// WriteSitemap emits a sitemap.xml enumerating the crawled page URLs with
// the run date as last-modified.
func WriteSitemap(root string, pages []string, now time.Time) error {
	index := sitemapIndex{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap-image/1.1",
		URLs:  make([]sitemapEntry, 0, len(pages)),
	}
	lastMod := now.Format("2006-01-02")
	for _, page := range pages {
		index.URLs = append(index.URLs, sitemapEntry{Loc: page, LastMod: lastMod})
	}

	payload, err := xml.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sitemap: %w", err)
	}
	payload = append([]byte(xml.Header), payload...)

	target := filepath.Join(root, "sitemap.xml")
	if err := os.WriteFile(target, payload, 0o600); err != nil {
		return fmt.Errorf("write sitemap %s: %w", target, err)
	}
	return nil
}
