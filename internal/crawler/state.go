// Package crawler discovers same-domain pages and the CDN assets they
// reference.
package crawler

import (
	"sort"
	"sync"

	"github.com/KoblerS/webflow-exporter/internal/assets"
)

// State accumulates the result of one crawl run: the visited set, the pages
// in discovery order, and the deduplicated asset URLs per kind. All methods
// are safe for concurrent use so the traversal can later be parallelized
// without changing the accounting.
type State struct {
	mu      sync.Mutex
	visited map[string]struct{}
	pages   []string
	assets  map[assets.Kind]map[string]struct{}
}

// NewState returns an empty crawl state.
func NewState() *State {
	st := &State{
		visited: make(map[string]struct{}),
		assets:  make(map[assets.Kind]map[string]struct{}),
	}
	for _, kind := range assets.PageKinds {
		st.assets[kind] = make(map[string]struct{})
	}
	return st
}

// MarkVisited records the URL as visited and reports whether it was new.
// Check and insertion are atomic, so no URL can be claimed twice.
func (s *State) MarkVisited(canonicalURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.visited[canonicalURL]; seen {
		return false
	}
	s.visited[canonicalURL] = struct{}{}
	return true
}

// Visited reports whether the URL has been claimed already.
func (s *State) Visited(canonicalURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, seen := s.visited[canonicalURL]
	return seen
}

// AddPage appends a confirmed HTML page. Pages keep discovery order.
func (s *State) AddPage(canonicalURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, canonicalURL)
}

// AddAsset records an asset URL under its kind, deduplicated by canonical URL.
func (s *State) AddAsset(kind assets.Kind, canonicalURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.assets[kind]
	if !ok {
		set = make(map[string]struct{})
		s.assets[kind] = set
	}
	set[canonicalURL] = struct{}{}
}

// Pages returns the crawled pages in discovery order.
func (s *State) Pages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.pages))
	copy(out, s.pages)
	return out
}

// Assets returns the collected URLs for a kind, sorted for deterministic
// downloads.
func (s *State) Assets(kind assets.Kind) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.assets[kind]
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// AssetCount returns the number of distinct asset URLs across all kinds.
func (s *State) AssetCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, set := range s.assets {
		n += len(set)
	}
	return n
}
