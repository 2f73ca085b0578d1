package cache

// resultVersion is bumped whenever the cached package encoding changes.
const resultVersion = "v1"

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey returns the key for the recognition result of a manifest
	// handled by handlerType whose content hashes to contentHash.
	ResultKey(handlerType, contentHash string) string
}

// DefaultKeyer produces keys of the form "result:v1:<type>:<hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ResultKey(handlerType, contentHash string) string {
	return "result:" + resultVersion + ":" + handlerType + ":" + contentHash
}

// ScopedKeyer wraps a Keyer with a prefix, so several deployments can share
// one Redis instance without seeing each other's entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
// A nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ResultKey(handlerType, contentHash string) string {
	return k.prefix + k.inner.ResultKey(handlerType, contentHash)
}
