package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments, or several
// versions of the scoring code, can share one Redis instance without reading
// each other's entries.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "csmtree:v1:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// CurveKey generates a prefixed key for budget curve caching.
func (k *ScopedKeyer) CurveKey(treeHash string) string {
	return k.prefix + k.inner.CurveKey(treeHash)
}

// SearchKey generates a prefixed key for labeling search caching.
func (k *ScopedKeyer) SearchKey(treeHash string, opts SearchKeyOpts) string {
	return k.prefix + k.inner.SearchKey(treeHash, opts)
}
