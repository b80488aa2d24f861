package di

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Thunk is delivered for Lazy and Provider dependencies.
type Thunk func() (any, error)

// LazyKey delivers a Thunk that resolves its inner tree on the first call
// and returns the same value afterwards. Failures surface only when called.
type LazyKey struct {
	inner any
}

// Lazy wraps inner so that its resolution is deferred until first use.
func Lazy(inner any) *LazyKey {
	return &LazyKey{inner: inner}
}

// ProviderKey delivers a Thunk that re-resolves its inner tree on every call.
type ProviderKey struct {
	inner any
}

// Provider wraps inner so that every call performs a fresh resolution.
func Provider(inner any) *ProviderKey {
	return &ProviderKey{inner: inner}
}

// OptionalKey delivers nil instead of failing when its inner tree has no
// binding or needs a scope no ancestor owns.
type OptionalKey struct {
	inner any
}

// Optional wraps inner so that an absent value resolves to nil.
func Optional(inner any) *OptionalKey {
	return &OptionalKey{inner: inner}
}

// BuildKey resolves its inner tree to a function and delivers the result of
// calling it with args.
type BuildKey struct {
	inner any
	args  []any
}

// Build wraps inner, which must resolve to a function, and calls it with args.
func Build(inner any, args ...any) *BuildKey {
	return &BuildKey{inner: inner, args: args}
}

// AsyncKey marks its inner tree as allowed to contain asynchronous bindings
// and delivers a *Future.
type AsyncKey struct {
	inner any
}

// Async wraps inner so that it resolves to a *Future.
func Async(inner any) *AsyncKey {
	return &AsyncKey{inner: inner}
}

func (*LazyKey) dependencyNode()     {}
func (*ProviderKey) dependencyNode() {}
func (*OptionalKey) dependencyNode() {}
func (*BuildKey) dependencyNode()    {}
func (*AsyncKey) dependencyNode()    {}

func (d *LazyKey) String() string     { return "Lazy(" + describe(d.inner) + ")" }
func (d *ProviderKey) String() string { return "Provider(" + describe(d.inner) + ")" }
func (d *OptionalKey) String() string { return "Optional(" + describe(d.inner) + ")" }
func (d *BuildKey) String() string    { return "Build(" + describe(d.inner) + ")" }
func (d *AsyncKey) String() string    { return "Async(" + describe(d.inner) + ")" }

// describe renders a dependency tree for logs and span attributes.
func describe(dep any) string {
	switch d := dep.(type) {
	case nil:
		return "nil"
	case Keyed:
		if d.info() == nil {
			return "nil"
		}
		return d.Name()
	case fmt.Stringer:
		return d.String()
	case []any:
		parts := make([]string, len(d))
		for i, v := range d {
			parts[i] = describe(v)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		names := make([]string, 0, len(d))
		for k := range d {
			names = append(names, k)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, k := range names {
			parts[i] = k + ": " + describe(d[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	if seq, m, ok := normalize(dep); ok {
		if seq != nil {
			return describe(seq)
		}
		return describe(m)
	}
	return fmt.Sprintf("%T", dep)
}

// normalize converts any slice, array or string-keyed map into the generic
// []any / map[string]any forms the resolver works on.
func normalize(dep any) ([]any, map[string]any, bool) {
	rv := reflect.ValueOf(dep)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}, nil, true
		}
		seq := make([]any, rv.Len())
		for i := range seq {
			seq[i] = rv.Index(i).Interface()
		}
		return seq, nil, true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, nil, false
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return nil, m, true
	default:
		return nil, nil, false
	}
}
