// Package cache provides pluggable byte caches and cache-key construction
// for the expression pipeline.
//
// Expensive pipeline stages (building a document from a graph, sampling a
// compiled function over a grid, rendering a graph) are cached by content
// hash: equal inputs always produce equal keys, so a cache hit is safe to
// reuse. Backends cover local CLI runs (FileCache), tests (NullCache and
// MemoryCache), and the shared service deployment (RedisCache).
package cache

import (
	"context"
	"sync"
	"time"
)

// Default time-to-live per pipeline stage. Documents are pure functions of
// the graph bytes so they keep for a long time; sampled grids and rendered
// artifacts are larger and cheaper to recompute.
const (
	TTLDocument = 7 * 24 * time.Hour
	TTLSample   = 24 * time.Hour
	TTLRender   = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backend resources.
	Close() error
}

// SampleKeyOpts carry everything that changes the bytes of a sampled grid.
type SampleKeyOpts struct {
	Output     string  // output name within the document
	Dimensions int     // coordinate dimensionality
	PatchHash  string  // hash of the applied patch set, empty when none
	Width      int     // grid columns
	Height     int     // grid rows
	Scale      float64 // world units per grid cell
}

// RenderKeyOpts carry everything that changes a rendered graph artifact.
type RenderKeyOpts struct {
	Format string // dot, svg, or png
}

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// DocumentKey keys the expression document built from a graph, by the
	// hash of the graph's serialized bytes.
	DocumentKey(graphHash string) string

	// SampleKey keys a sampled grid by document hash and sampling options.
	SampleKey(docHash string, opts SampleKeyOpts) string

	// RenderKey keys a rendered artifact by graph hash and render options.
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// DefaultKeyer hashes all inputs into stable, collision-resistant keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocumentKey generates a key for a built expression document.
func (k *DefaultKeyer) DocumentKey(graphHash string) string {
	return hashKey("doc", graphHash)
}

// SampleKey generates a key for a sampled grid.
func (k *DefaultKeyer) SampleKey(docHash string, opts SampleKeyOpts) string {
	return hashKey("sample", docHash, opts)
}

// RenderKey generates a key for a rendered graph artifact.
func (k *DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, opts)
}

// MemoryCache is a process-local cache for tests and short-lived runs.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.data, true, nil
}

// Set stores a value in the cache.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Close does nothing for the in-memory cache.
func (c *MemoryCache) Close() error { return nil }

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
