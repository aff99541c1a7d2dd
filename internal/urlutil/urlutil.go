// Package urlutil normalizes references into canonical URLs and classifies
// them as crawlable pages or downloadable CDN assets.
package urlutil

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Canonicalize resolves ref against base and reduces the result to its
// scheme+host+path form: no trailing slash, no fragment, no query.
// Two references that canonicalize identically are the same entity for
// visited-set and mapping lookups. The function is idempotent.
func Canonicalize(base *url.URL, ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parse reference %q: %w", ref, err)
	}

	resolved := u
	if base != nil {
		// Resolve relative references the way a browser resolves them from
		// a directory-style page URL.
		b := *base
		if !strings.HasSuffix(b.Path, "/") {
			b.Path += "/"
		}
		resolved = b.ResolveReference(u)
	}

	resolved.Fragment = ""
	resolved.RawQuery = ""
	resolved.Scheme = strings.ToLower(resolved.Scheme)
	resolved.Host = strings.ToLower(resolved.Host)
	resolved.Path = strings.TrimSuffix(resolved.Path, "/")

	if resolved.Host == "" {
		return "", fmt.Errorf("reference %q has no host after resolution", ref)
	}
	if resolved.Scheme == "" {
		resolved.Scheme = "https"
	}

	return resolved.Scheme + "://" + resolved.Host + resolved.EscapedPath(), nil
}

// SameHost reports whether two URLs point at the same host, ignoring case.
func SameHost(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return strings.EqualFold(a.Hostname(), b.Hostname())
}

// BareFilename returns the last path element of a URL, or "" when the URL
// has no usable path.
func BareFilename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// Extension returns the file extension of a URL path, including the dot.
func Extension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Ext(u.Path)
}

// PagePath derives the local file path for a crawled page from its canonical
// URL: an empty path maps to index.html, everything else to <path>.html.
func PagePath(canonical string) string {
	u, err := url.Parse(canonical)
	if err != nil {
		return "/index.html"
	}
	p := strings.Trim(u.Path, "/")
	if p == "" {
		return "/index.html"
	}
	return "/" + p + ".html"
}

// Origin identifies the CDN host pattern from which downloadable assets are
// served, e.g. "website-files.com" matches any subdomain of that host.
type Origin struct {
	Host string
}

// Matches reports whether rawURL points at the asset origin. Scheme-less and
// protocol-relative references are accepted.
func (o Origin) Matches(rawURL string) bool {
	if o.Host == "" {
		return false
	}
	u, err := url.Parse(Absolute(rawURL))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == o.Host || strings.HasSuffix(host, "."+o.Host)
}

// ScanPattern compiles a regular expression matching origin references
// embedded in stylesheet or script text. It covers full URLs as well as
// bare CDN paths with no scheme prefix.
func (o Origin) ScanPattern() *regexp.Regexp {
	host := regexp.QuoteMeta(o.Host)
	return regexp.MustCompile(`(?:https?:)?(?://)?[\w.-]*` + host + `(?:/[\w\-.%/]+)?`)
}

// Absolute upgrades scheme-less and protocol-relative references to https
// so they can be fetched and used as mapping keys.
func Absolute(ref string) string {
	switch {
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	case strings.Contains(ref, "://"):
		return ref
	default:
		return "https://" + ref
	}
}
