package urlutil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestCanonicalize(t *testing.T) {
	base := mustParse(t, "https://demo.webflow.io/about")

	t.Run("absolute reference", func(t *testing.T) {
		got, err := Canonicalize(base, "https://demo.webflow.io/contact")
		require.NoError(t, err)
		require.Equal(t, "https://demo.webflow.io/contact", got)
	})

	t.Run("root-relative reference", func(t *testing.T) {
		got, err := Canonicalize(base, "/team")
		require.NoError(t, err)
		require.Equal(t, "https://demo.webflow.io/team", got)
	})

	t.Run("document-relative reference", func(t *testing.T) {
		got, err := Canonicalize(base, "history")
		require.NoError(t, err)
		require.Equal(t, "https://demo.webflow.io/about/history", got)
	})

	t.Run("protocol-relative reference", func(t *testing.T) {
		got, err := Canonicalize(base, "//cdn.prod.website-files.com/a/b.css")
		require.NoError(t, err)
		require.Equal(t, "https://cdn.prod.website-files.com/a/b.css", got)
	})

	t.Run("strips trailing slash and fragment", func(t *testing.T) {
		got, err := Canonicalize(base, "https://demo.webflow.io/blog/#latest")
		require.NoError(t, err)
		require.Equal(t, "https://demo.webflow.io/blog", got)
	})

	t.Run("strips query", func(t *testing.T) {
		got, err := Canonicalize(base, "https://demo.webflow.io/blog?page=2")
		require.NoError(t, err)
		require.Equal(t, "https://demo.webflow.io/blog", got)
	})

	t.Run("idempotent", func(t *testing.T) {
		refs := []string{
			"https://demo.webflow.io/blog/",
			"/pricing#plans",
			"//cdn.prod.website-files.com/x/y.png?v=3",
		}
		for _, ref := range refs {
			once, err := Canonicalize(base, ref)
			require.NoError(t, err)
			twice, err := Canonicalize(base, once)
			require.NoError(t, err)
			require.Equal(t, once, twice, "canonicalize must be idempotent for %q", ref)
		}
	})

	t.Run("rejects hostless reference without base", func(t *testing.T) {
		_, err := Canonicalize(nil, "/orphan")
		require.Error(t, err)
	})
}

func TestOriginMatches(t *testing.T) {
	origin := Origin{Host: "website-files.com"}

	require.True(t, origin.Matches("https://cdn.prod.website-files.com/a/logo.png"))
	require.True(t, origin.Matches("//assets.website-files.com/a/site.css"))
	require.True(t, origin.Matches("cdn.prod.website-files.com/a/app.js"))
	require.False(t, origin.Matches("https://demo.webflow.io/page"))
	require.False(t, origin.Matches("https://evil-website-files.com/a.png"))
	require.False(t, Origin{}.Matches("https://cdn.prod.website-files.com/a.png"))
}

func TestOriginScanPattern(t *testing.T) {
	pattern := Origin{Host: "website-files.com"}.ScanPattern()

	css := `body{background:url(https://cdn.prod.website-files.com/5f1a/bg.png)}
.h{src:url("//cdn.prod.website-files.com/5f1a/font.woff2")}
.i{background-image:url(cdn.prod.website-files.com/5f1a/tile.jpg)}`

	matches := pattern.FindAllString(css, -1)
	require.Len(t, matches, 3)
	require.Contains(t, matches[0], "bg.png")
	require.Contains(t, matches[1], "font.woff2")
	require.Contains(t, matches[2], "tile.jpg")
}

func TestPagePath(t *testing.T) {
	require.Equal(t, "/index.html", PagePath("https://demo.webflow.io"))
	require.Equal(t, "/index.html", PagePath("https://demo.webflow.io/"))
	require.Equal(t, "/about.html", PagePath("https://demo.webflow.io/about"))
	require.Equal(t, "/blog/post-1.html", PagePath("https://demo.webflow.io/blog/post-1"))
}

func TestBareFilename(t *testing.T) {
	require.Equal(t, "logo.png", BareFilename("https://cdn.prod.website-files.com/a/logo.png"))
	require.Equal(t, "", BareFilename("https://cdn.prod.website-files.com"))
	require.Equal(t, "", BareFilename("https://cdn.prod.website-files.com/"))
}
