package assets

import (
	"sync"

	"github.com/google/uuid"

	"github.com/KoblerS/webflow-exporter/internal/urlutil"
)

// Map assigns each distinct asset URL a collision-free local filename and
// records a two-way-searchable mapping: both the full source URL and the
// bare original filename point at the generated local path.
//
// The bare-filename key is a deliberate, best-effort fallback: documents and
// stylesheets sometimes reference an asset through a differently-formed URL
// than the one discovered during the crawl. When two distinct assets share a
// filename the last writer wins; collisions are rare and non-fatal.
type Map struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMap returns an empty identifier map.
func NewMap() *Map {
	return &Map{entries: make(map[string]string)}
}

// Assign returns the local path for rawURL, generating a fresh identifier on
// first sight. The original file extension is preserved. Safe for concurrent
// use by the asset download pool.
func (m *Map) Assign(rawURL string, kind Kind) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if local, ok := m.entries[rawURL]; ok {
		return local
	}

	local := "/" + kind.Folder() + "/" + uuid.NewString() + urlutil.Extension(rawURL)
	m.entries[rawURL] = local
	if name := urlutil.BareFilename(rawURL); name != "" {
		m.entries[name] = local
	}
	return local
}

// Resolve looks up the local path for a reference: first by full URL, then by
// bare filename. The second return value is false when neither key is known.
func (m *Map) Resolve(rawURL string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if local, ok := m.entries[rawURL]; ok {
		return local, true
	}
	if name := urlutil.BareFilename(rawURL); name != "" {
		if local, ok := m.entries[name]; ok {
			return local, true
		}
	}
	return "", false
}

// Known reports whether the full URL already has an assigned local path.
func (m *Map) Known(rawURL string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[rawURL]
	return ok
}

// Len returns the number of mapping keys, counting both URL and filename keys.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
