package di

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/xraph/inject/internal/errors"
	"github.com/xraph/inject/internal/logger"
	"github.com/xraph/inject/internal/observability"
)

// Container holds bindings, the scopes it owns and the cached values of
// those scopes. Containers form a tree; lookups walk toward the root.
//
// Registration and scope declaration are expected to finish before
// concurrent requests begin; requests themselves are safe for concurrent use.
type Container struct {
	id     uuid.UUID
	name   string
	parent *Container
	obs    *observer

	mu       sync.RWMutex
	bindings map[*keyInfo]*binding
	scopes   map[*Scope]struct{}

	cache    *instanceCache
	flight   singleflight.Group
	fills    *fillRegistry
	children atomic.Int64
}

// NewRoot creates a root container. The root owns the Singleton scope.
func NewRoot(opts ...Option) *Container {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := newContainer(o.name, nil, newObserver(o), newFillRegistry())
	c.scopes[Singleton] = struct{}{}
	return c
}

func newContainer(name string, parent *Container, obs *observer, fills *fillRegistry) *Container {
	return &Container{
		id:       uuid.New(),
		name:     name,
		parent:   parent,
		obs:      obs,
		bindings: make(map[*keyInfo]*binding),
		scopes:   make(map[*Scope]struct{}),
		cache:    newInstanceCache(),
		fills:    fills,
	}
}

// Name returns the container's name.
func (c *Container) Name() string {
	return c.name
}

func (c *Container) String() string {
	return "Container(" + c.name + ")"
}

// Parent returns the parent container, or nil for a root.
func (c *Container) Parent() *Container {
	return c.parent
}

// Logger returns the logger shared by the container tree.
func (c *Container) Logger() logger.Logger {
	return c.obs.log
}

// Metrics returns the resolution metrics of the container tree, or nil.
func (c *Container) Metrics() *observability.Metrics {
	return c.obs.metrics
}

// Provide binds key to fn, which receives the resolved deps tree. The
// binding uses the key's default scope, if any.
func (c *Container) Provide(key Keyed, deps any, fn Factory) *Container {
	return c.bind(key, newBinding(deps, fn, nil))
}

// ProvideScoped binds key to fn with an explicit scope. An entry already
// cached for key by this container's binding survives a later re-provide.
func (c *Container) ProvideScoped(key Keyed, scope *Scope, deps any, fn Factory) *Container {
	return c.bind(key, newBinding(deps, fn, scope))
}

// ProvideInstance binds key to a fixed value. Instance bindings are never
// scoped.
func (c *Container) ProvideInstance(key Keyed, value any) *Container {
	return c.bind(key, newInstanceBinding(value))
}

// ProvideAsync binds key to an asynchronous factory. Such a key can only be
// requested beneath an Async wrapper.
func (c *Container) ProvideAsync(key Keyed, deps any, fn AsyncFactory) *Container {
	return c.bind(key, newAsyncBinding(deps, fn, nil))
}

// ProvideAsyncScoped binds key to an asynchronous factory with an explicit
// scope. The cache entry holds the future, so concurrent and later requests
// share a single production.
func (c *Container) ProvideAsyncScoped(key Keyed, scope *Scope, deps any, fn AsyncFactory) *Container {
	return c.bind(key, newAsyncBinding(deps, fn, scope))
}

func (c *Container) bind(key Keyed, b *binding) *Container {
	ki := key.info()
	if ki == nil {
		panic("inject: cannot bind a nil key")
	}
	if ki == ContainerKey.ki {
		panic("inject: ContainerKey cannot be rebound")
	}
	if b.factory == nil && b.asyncFactory == nil {
		panic("inject: nil factory for key " + ki.String())
	}

	c.mu.Lock()
	c.bindings[ki] = b
	c.mu.Unlock()

	if c.obs.log.Enabled(logger.LevelDebug) {
		c.obs.log.Debug("binding registered",
			logger.String("key", ki.String()),
			logger.String("scope", b.scope.Name()),
			logger.Bool("async", b.async()),
			logger.String("container", c.name),
		)
	}
	return c
}

// AddScope declares that c owns scopes.
func (c *Container) AddScope(scopes ...*Scope) *Container {
	c.mu.Lock()
	for _, s := range scopes {
		if s != nil {
			c.scopes[s] = struct{}{}
		}
	}
	c.mu.Unlock()

	for _, s := range scopes {
		c.obs.log.Debug("scope declared",
			logger.String("scope", s.Name()),
			logger.String("container", c.name),
		)
	}
	return c
}

// Owns reports whether c itself owns scope.
func (c *Container) Owns(scope *Scope) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.scopes[scope]
	return ok
}

// CreateChild creates a child container owning scopes.
func (c *Container) CreateChild(scopes ...*Scope) *Container {
	n := c.children.Add(1)
	child := newContainer(c.name+"/"+strconv.FormatInt(n, 10), c, c.obs, c.fills)
	for _, s := range scopes {
		if s != nil {
			child.scopes[s] = struct{}{}
		}
	}
	c.obs.log.Debug("child created",
		logger.String("container", child.name),
		logger.Int("scopes", len(child.scopes)),
	)
	return child
}

// Apply installs modules in order and returns the resulting container.
func (c *Container) Apply(modules ...Installer) *Container {
	cur := c
	for _, m := range modules {
		if m == nil {
			continue
		}
		if next := m.Install(cur); next != nil {
			cur = next
		}
	}
	return cur
}

// Has reports whether key resolves to a binding from c, counting defaults.
func (c *Container) Has(key Keyed) bool {
	ki := key.info()
	if ki == nil {
		return false
	}
	if ki == ContainerKey.ki {
		return true
	}
	b, _ := c.lookup(ki)
	return b != nil
}

// Request resolves tree against c. The result mirrors the shape of tree;
// when any part of it is asynchronous the result is a *Future.
func (c *Container) Request(tree any) (any, error) {
	return c.RequestContext(context.Background(), tree)
}

// RequestContext is Request with a context. The context's values reach
// asynchronous factories; its cancellation does not abort productions that
// may be shared with other requests.
func (c *Container) RequestContext(ctx context.Context, tree any) (any, error) {
	start := time.Now()
	ctx, span := c.obs.tracer.StartRequest(ctx, c.name, func() string { return describe(tree) })

	r := resolution{ctx: ctx, obs: c.obs}
	o := r.resolve(c, tree, false)

	c.obs.requestDone(c, tree, time.Since(start), o.err, o.deferred())
	observability.EndRequest(span, o.err, errors.CodeOf(o.err), o.deferred())
	if o.err != nil {
		return nil, o.err
	}
	return o.unwrap(), nil
}

// Build resolves a subcomponent key and invokes the resulting factory with
// args, returning the new child container.
func (c *Container) Build(key Keyed, args ...any) (*Container, error) {
	v, err := c.Request(key)
	if err != nil {
		return nil, err
	}
	if sub, ok := v.(Subcomponent); ok {
		return sub(args...), nil
	}
	out, err := callValue(v, args)
	if err != nil {
		return nil, errors.ErrBuildFailed([]string{key.Name()}, err)
	}
	child, ok := out.(*Container)
	if !ok {
		return nil, errors.ErrTypeMismatch(key.Name(), (*Container)(nil), out)
	}
	return child, nil
}

// lookup finds the binding for ki: the nearest explicit binding from c
// upward, else the key's default. The second result is the container the
// binding belongs to; for defaults it is c.
func (c *Container) lookup(ki *keyInfo) (*binding, *Container) {
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		b := cur.bindings[ki]
		cur.mu.RUnlock()
		if b != nil {
			return b, cur
		}
	}
	if ki.def != nil {
		return ki.def, c
	}
	return nil, nil
}

// owner returns the nearest container from c upward owning scope.
func (c *Container) owner(scope *Scope) *Container {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.Owns(scope) {
			return cur
		}
	}
	return nil
}

// nearest returns whichever of a and b comes first walking from c upward.
func (c *Container) nearest(a, b *Container) *Container {
	for cur := c; cur != nil; cur = cur.parent {
		if cur == a || cur == b {
			return cur
		}
	}
	return a
}

// depth returns the number of parent links from c to target, or -1.
func (c *Container) depth(target *Container) int {
	d := 0
	for cur := c; cur != nil; cur = cur.parent {
		if cur == target {
			return d
		}
		d++
	}
	return -1
}
