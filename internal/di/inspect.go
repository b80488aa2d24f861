package di

// BindingInfo describes how a key would resolve from a container.
type BindingInfo struct {
	Key string
	// Bound is false when the key has neither an explicit nor a default binding.
	Bound   bool
	Default bool
	Async   bool
	// Container names the container holding the binding.
	Container string
	// Depth counts parent links from the inspected container to the binding.
	Depth int
	// Scope is the effective scope name, empty when unscoped.
	Scope string
	// Owner names the container owning Scope, empty when unavailable.
	Owner      string
	OwnerDepth int
	// Cached reports whether the owning container holds a value for the key.
	Cached bool
}

// Inspect reports how key would resolve from c without resolving it.
func (c *Container) Inspect(key Keyed) BindingInfo {
	info := BindingInfo{Key: key.Name(), Depth: -1, OwnerDepth: -1}
	ki := key.info()
	if ki == nil {
		return info
	}
	if ki == ContainerKey.ki {
		info.Bound = true
		info.Container = c.name
		info.Depth = 0
		return info
	}

	b, bc := c.lookup(ki)
	if b == nil {
		return info
	}
	info.Bound = true
	info.Default = b.fallback
	info.Async = b.async()
	info.Container = bc.name
	info.Depth = c.depth(bc)

	scope := b.effectiveScope(ki)
	if scope == nil {
		return info
	}
	info.Scope = scope.Name()
	if owner := c.owner(scope); owner != nil {
		info.Owner = owner.name
		info.OwnerDepth = c.depth(owner)
		_, info.Cached = owner.cache.get(newEntryKey(scope, ki, b, bc))
	}
	return info
}
