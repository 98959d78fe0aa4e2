package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when one cache backend serves several projects or users
// and their entries must not collide.
//
// Example usage:
//
//	// Project-specific keys
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "project:terrain:")
//
//	// Shared keys for public presets
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DocumentKey generates a prefixed key for a built expression document.
func (k *ScopedKeyer) DocumentKey(graphHash string) string {
	return k.prefix + k.inner.DocumentKey(graphHash)
}

// SampleKey generates a prefixed key for a sampled grid.
func (k *ScopedKeyer) SampleKey(docHash string, opts SampleKeyOpts) string {
	return k.prefix + k.inner.SampleKey(docHash, opts)
}

// RenderKey generates a prefixed key for a rendered graph artifact.
func (k *ScopedKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, opts)
}
