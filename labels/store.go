package labels

import (
	"maps"
	"sync"

	"github.com/golang/groupcache/lru"
)

// Store caches resolved labels and remembers URIs that failed for good.
// Implementations must be safe for concurrent use.
type Store interface {
	// Labels returns the cached labels of uri keyed by language.
	Labels(uri string) (map[string]string, bool)

	// Put caches the labels of uri.
	Put(uri string, labels map[string]string)

	// Skipped reports whether uri is on the skip-list.
	Skipped(uri string) bool

	// Skip adds uri to the skip-list.
	Skip(uri string)
}

// Default LRUStore sizes.
const (
	DefaultMaxLabels  = 10000
	DefaultMaxSkipped = 0
)

// LRUStore bounds the label cache with an LRU. The skip-list is unbounded
// when maxSkipped is zero, so a skipped URI is never fetched again for the
// life of the store.
type LRUStore struct {
	mu      sync.Mutex
	labels  *lru.Cache
	skipped *lru.Cache
}

// NewLRUStore creates a store holding at most maxLabels label sets and
// maxSkipped skip-list entries. Zero means unbounded.
func NewLRUStore(maxLabels, maxSkipped int) *LRUStore {
	return &LRUStore{
		labels:  lru.New(maxLabels),
		skipped: lru.New(maxSkipped),
	}
}

// Labels implements Store.
func (s *LRUStore) Labels(uri string) (map[string]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.labels.Get(uri)
	if !ok {
		return nil, false
	}
	return maps.Clone(v.(map[string]string)), true
}

// Put implements Store.
func (s *LRUStore) Put(uri string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels.Add(uri, maps.Clone(labels))
}

// Skipped implements Store.
func (s *LRUStore) Skipped(uri string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.skipped.Get(uri)
	return ok
}

// Skip implements Store.
func (s *LRUStore) Skip(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped.Add(uri, struct{}{})
}

// Len returns the number of cached label sets and skipped URIs.
func (s *LRUStore) Len() (labels, skipped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.labels.Len(), s.skipped.Len()
}
