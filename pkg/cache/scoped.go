package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The HTTP API uses it to give every client namespace its own slice of
// the shared cache.
//
// Example usage:
//
//	// Per-client keys for uploaded models
//	clientKeyer := NewScopedKeyer(NewDefaultKeyer(), "client:abc123:")
//
//	// Global keys for shared generation results
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

// StackKey generates a prefixed key for an uploaded slice stack.
func (k *ScopedKeyer) StackKey(namespace, id string) string {
	return k.prefix + k.inner.StackKey(namespace, id)
}

// LayersKey generates a prefixed key for generated layer output.
func (k *ScopedKeyer) LayersKey(stackHash string, opts LayersKeyOpts) string {
	return k.prefix + k.inner.LayersKey(stackHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(layersHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layersHash, opts)
}
