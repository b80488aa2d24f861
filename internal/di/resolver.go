package di

import (
	"context"
	"sync"

	"github.com/xraph/inject/internal/errors"
	"github.com/xraph/inject/internal/logger"
)

// outcome is the result of resolving one node of a tree: a ready value, a
// pending future or a failure.
type outcome struct {
	value  any
	future *Future
	err    error
}

func ready(v any) outcome { return outcome{value: v} }

func pending(f *Future) outcome { return outcome{future: f} }

func failed(err error) outcome { return outcome{err: err} }

func (o outcome) deferred() bool { return o.future != nil }

// unwrap returns the value, or the future when deferred.
func (o outcome) unwrap() any {
	if o.future != nil {
		return o.future
	}
	return o.value
}

// resolution carries the per-request state: the context handed to
// asynchronous factories, the observer and the chain of bindings currently
// being produced.
type resolution struct {
	ctx context.Context
	obs *observer
	at  *frame
}

func (r resolution) path(next *keyInfo) []string {
	return r.at.path(next)
}

// resolve resolves tree against c. async reports whether an Async wrapper
// encloses this node.
func (r resolution) resolve(c *Container, tree any, async bool) outcome {
	switch d := tree.(type) {
	case nil:
		return ready(nil)
	case Keyed:
		return r.resolveKey(c, d.info(), async)
	case *LazyKey:
		return ready(r.lazy(c, d.inner, async))
	case *ProviderKey:
		return ready(r.provider(c, d.inner, async))
	case *OptionalKey:
		return r.optional(c, d.inner, async)
	case *BuildKey:
		return r.build(c, d, async)
	case *AsyncKey:
		return r.async(c, d.inner)
	case []any:
		return r.resolveSeq(c, d, async)
	case map[string]any:
		return r.resolveMap(c, d, async)
	}
	if seq, m, ok := normalize(tree); ok {
		if seq != nil {
			return r.resolveSeq(c, seq, async)
		}
		return r.resolveMap(c, m, async)
	}
	return failed(errors.ErrInvalidDependency(tree, r.path(nil)))
}

func (r resolution) resolveSeq(c *Container, seq []any, async bool) outcome {
	out := make([]any, len(seq))
	var j joiner
	for i, dep := range seq {
		o := r.resolve(c, dep, async)
		switch {
		case o.err != nil:
			return o
		case o.deferred():
			j.add(o.future, func(v any) { out[i] = v })
		default:
			out[i] = o.value
		}
	}
	return j.finish(r.ctx, out)
}

func (r resolution) resolveMap(c *Container, m map[string]any, async bool) outcome {
	out := make(map[string]any, len(m))
	var j joiner
	for name, dep := range m {
		o := r.resolve(c, dep, async)
		switch {
		case o.err != nil:
			return o
		case o.deferred():
			j.add(o.future, func(v any) { out[name] = v })
		default:
			out[name] = o.value
		}
	}
	return j.finish(r.ctx, out)
}

// joiner collects the pending leaves of one structure.
type joiner struct {
	futures []*Future
	assign  []func(any)
}

func (j *joiner) add(f *Future, assign func(any)) {
	j.futures = append(j.futures, f)
	j.assign = append(j.assign, assign)
}

// finish returns shape ready, or a future of shape once every pending leaf
// has completed.
func (j *joiner) finish(ctx context.Context, shape any) outcome {
	if len(j.futures) == 0 {
		return ready(shape)
	}
	ctx = context.WithoutCancel(ctx)
	return pending(goFuture(func() (any, error) {
		values, err := joinFutures(ctx, j.futures)
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			j.assign[i](v)
		}
		return shape, nil
	}))
}

func (r resolution) resolveKey(c *Container, ki *keyInfo, async bool) outcome {
	if ki == nil {
		return ready(nil)
	}
	if ki == ContainerKey.ki {
		return ready(c)
	}

	b, bc := c.lookup(ki)
	if b == nil {
		return failed(errors.ErrMissingBinding(r.path(ki)))
	}
	if b.async() && !async {
		return failed(errors.ErrAsyncMisuse(r.path(ki)))
	}

	scope := b.effectiveScope(ki)
	if scope == nil {
		return r.produce(c, ki, b, nil)
	}

	owner := c.owner(scope)
	if owner == nil {
		return failed(errors.ErrScopeUnavailable(scope.Name(), r.path(ki)))
	}
	rc := c.nearest(owner, bc)

	ek := newEntryKey(scope, ki, b, bc)
	if v, ok := owner.cache.get(ek); ok {
		r.obs.metrics.CacheHit(scope.Name())
		return v.(outcome)
	}
	if r.at.active(rc, ki) {
		return failed(errors.ErrCyclicDependency(r.path(ki)))
	}

	id := owner.id.String() + "/" + ek.flightKey()
	holder := r.at.holding()
	f, ok := owner.fills.acquire(id, holder)
	if !ok {
		return failed(errors.ErrCyclicDependency(r.path(ki)))
	}
	defer owner.fills.release(id, f, holder)

	v, err, _ := owner.flight.Do(ek.flightKey(), func() (any, error) {
		if v, ok := owner.cache.get(ek); ok {
			return v, nil
		}
		r.obs.metrics.CacheMiss(scope.Name())
		o := r.produce(rc, ki, b, f)
		if o.err != nil {
			return nil, o.err
		}
		owner.cache.set(ek, o)
		r.obs.log.Debug("cache filled",
			logger.String("key", ki.String()),
			logger.String("scope", scope.Name()),
			logger.String("container", owner.name),
		)
		return o, nil
	})
	if err != nil {
		return failed(err)
	}
	return v.(outcome)
}

// produce runs b for ki with its dependency tree resolved against rc. f is
// the fill the production belongs to when ki is scoped.
func (r resolution) produce(rc *Container, ki *keyInfo, b *binding, f *fill) outcome {
	if r.at.active(rc, ki) {
		return failed(errors.ErrCyclicDependency(r.path(ki)))
	}
	fr := &frame{container: rc, key: ki, parent: r.at, fill: f}
	defer fr.done.Store(true)
	inner := resolution{ctx: r.ctx, obs: r.obs, at: fr}
	path := inner.path(nil)

	if b.async() {
		deps := inner.resolve(rc, b.deps, true)
		if deps.err != nil {
			return deps
		}
		r.obs.metrics.Invocation("async")
		ctx := context.WithoutCancel(r.ctx)
		return pending(goFuture(func() (any, error) {
			d := deps.value
			if deps.deferred() {
				v, err := deps.future.Await(ctx)
				if err != nil {
					return nil, err
				}
				d = v
			}
			v, err := b.asyncFactory(ctx, d)
			if err != nil {
				return nil, errors.ErrBindingFailed(path, err)
			}
			return v, nil
		}))
	}

	deps := inner.resolve(rc, b.deps, false)
	if deps.err != nil {
		return deps
	}
	call := func(d any) (any, error) {
		r.obs.metrics.Invocation("sync")
		v, err := b.factory(d)
		if err != nil {
			return nil, errors.ErrBindingFailed(path, err)
		}
		return v, nil
	}
	if deps.deferred() {
		// An Async leaf below a sync binding defers the binding itself.
		return pending(deps.future.then(func(d any, err error) (any, error) {
			if err != nil {
				return nil, err
			}
			return call(d)
		}))
	}
	v, err := call(deps.value)
	if err != nil {
		return failed(err)
	}
	return ready(v)
}

// force resolves tree to a single value; a deferred result is returned as
// its *Future.
func (r resolution) force(c *Container, tree any, async bool) (any, error) {
	o := r.resolve(c, tree, async)
	if o.err != nil {
		return nil, o.err
	}
	return o.unwrap(), nil
}

func (r resolution) lazy(c *Container, inner any, async bool) Thunk {
	var (
		mu    sync.Mutex
		done  bool
		value any
	)
	return func() (any, error) {
		mu.Lock()
		defer mu.Unlock()
		if done {
			return value, nil
		}
		v, err := r.force(c, inner, async)
		if err != nil {
			return nil, err
		}
		value, done = v, true
		return value, nil
	}
}

func (r resolution) provider(c *Container, inner any, async bool) Thunk {
	return func() (any, error) {
		return r.force(c, inner, async)
	}
}

func (r resolution) optional(c *Container, inner any, async bool) outcome {
	o := r.resolve(c, inner, async)
	switch {
	case o.err != nil:
		if errors.Absent(o.err) {
			return ready(nil)
		}
		return o
	case o.deferred():
		return pending(o.future.then(func(v any, err error) (any, error) {
			if err != nil && errors.Absent(err) {
				return nil, nil
			}
			return v, err
		}))
	default:
		return o
	}
}

func (r resolution) build(c *Container, d *BuildKey, async bool) outcome {
	var target *keyInfo
	if k, ok := d.inner.(Keyed); ok {
		target = k.info()
	}
	path := r.path(target)

	o := r.resolve(c, d.inner, async)
	call := func(fn any) (any, error) {
		v, err := callValue(fn, d.args)
		if err != nil {
			return nil, errors.ErrBuildFailed(path, err)
		}
		return v, nil
	}
	switch {
	case o.err != nil:
		return o
	case o.deferred():
		return pending(o.future.then(func(v any, err error) (any, error) {
			if err != nil {
				return nil, err
			}
			return call(v)
		}))
	default:
		v, err := call(o.value)
		if err != nil {
			return failed(err)
		}
		return ready(v)
	}
}

func (r resolution) async(c *Container, inner any) outcome {
	o := r.resolve(c, inner, true)
	switch {
	case o.err != nil:
		return pending(Failed(o.err))
	case o.deferred():
		return o
	default:
		return pending(Completed(o.value))
	}
}
