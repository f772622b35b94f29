package cache

// ScopedKeyer prefixes every key of an inner Keyer. The CLI scopes keys by
// release so entries written by another version are never read back:
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) PlanKey(dbDigest string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(dbDigest, opts)
}
