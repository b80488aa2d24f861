package di

import "sync"

// entryKey identifies one cache entry of an owning container. origin is the
// container holding the explicit binding, nil for a key's default, so a
// re-provide on the same container keeps the entry while a descendant's
// binding gets its own.
type entryKey struct {
	scope  *Scope
	key    *keyInfo
	origin *Container
}

func newEntryKey(scope *Scope, ki *keyInfo, b *binding, bc *Container) entryKey {
	ek := entryKey{scope: scope, key: ki}
	if !b.fallback {
		ek.origin = bc
	}
	return ek
}

// flightKey names the entry for singleflight deduplication.
func (e entryKey) flightKey() string {
	origin := "default"
	if e.origin != nil {
		origin = e.origin.id.String()
	}
	return e.scope.id.String() + "/" + e.key.id.String() + "/" + origin
}

// instanceCache holds the values of scoped bindings filled on a container.
// Deferred productions are stored as their outcome's *Future.
type instanceCache struct {
	instances map[entryKey]any
	mu        sync.RWMutex
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		instances: make(map[entryKey]any),
	}
}

func (c *instanceCache) get(key entryKey) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	instance, ok := c.instances[key]
	return instance, ok
}

func (c *instanceCache) set(key entryKey, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[key] = instance
}

func (c *instanceCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.instances)
}
