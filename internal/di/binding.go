package di

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Factory produces a value from the resolved dependency tree.
type Factory func(deps any) (any, error)

// AsyncFactory produces a value asynchronously. It runs in its own goroutine
// once the dependency tree has been fully resolved.
type AsyncFactory func(ctx context.Context, deps any) (any, error)

// binding is a recipe for producing the value of a key. Bindings are
// immutable once registered.
type binding struct {
	id           uuid.UUID
	deps         any
	factory      Factory
	asyncFactory AsyncFactory
	scope        *Scope

	// fixed bindings hold a ready value and are never scoped.
	fixed bool
	// fallback marks a key's default binding.
	fallback bool
}

func newBinding(deps any, fn Factory, scope *Scope) *binding {
	return &binding{id: uuid.New(), deps: deps, factory: fn, scope: scope}
}

func newAsyncBinding(deps any, fn AsyncFactory, scope *Scope) *binding {
	return &binding{id: uuid.New(), deps: deps, asyncFactory: fn, scope: scope}
}

func newInstanceBinding(value any) *binding {
	b := newBinding(nil, func(any) (any, error) { return value, nil }, nil)
	b.fixed = true
	return b
}

func (b *binding) async() bool {
	return b.asyncFactory != nil
}

// effectiveScope is the binding's own scope, else the key's default scope.
func (b *binding) effectiveScope(ki *keyInfo) *Scope {
	if b.fixed {
		return nil
	}
	if b.scope != nil {
		return b.scope
	}
	return ki.scope
}

var errorType = reflect.TypeFor[error]()

// Call adapts an arbitrary function into a Factory. A sequence dependency
// ([]any) is spread into positional parameters; any other dependency is
// passed as the only parameter. fn must return (T) or (T, error).
//
// Call panics when fn is not such a function.
func Call(fn any) Factory {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		panic(fmt.Sprintf("inject: Call expects a function, got %T", fn))
	}
	ft := fv.Type()
	if n := ft.NumOut(); n < 1 || n > 2 || (n == 2 && !ft.Out(1).Implements(errorType)) {
		panic(fmt.Sprintf("inject: factory must return (T) or (T, error), got %s", ft))
	}

	return func(deps any) (any, error) {
		var args []any
		switch d := deps.(type) {
		case []any:
			if ft.NumIn() == 1 && !ft.IsVariadic() && len(d) != 1 {
				args = []any{d}
			} else {
				args = d
			}
		case nil:
			if ft.NumIn() > 0 && !ft.IsVariadic() {
				args = []any{nil}
			}
		default:
			args = []any{d}
		}
		return invoke(fv, args)
	}
}

// callValue invokes fn, which must be a function value, with args.
func callValue(fn any, args []any) (any, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%T is not callable", fn)
	}
	ft := fv.Type()
	if n := ft.NumOut(); n < 1 || n > 2 || (n == 2 && !ft.Out(1).Implements(errorType)) {
		return nil, fmt.Errorf("function must return (T) or (T, error), got %s", ft)
	}
	return invoke(fv, args)
}

func invoke(fv reflect.Value, args []any) (any, error) {
	ft := fv.Type()
	if ft.IsVariadic() {
		if len(args) < ft.NumIn()-1 {
			return nil, fmt.Errorf("function expects at least %d parameters, got %d", ft.NumIn()-1, len(args))
		}
	} else if len(args) != ft.NumIn() {
		return nil, fmt.Errorf("function expects %d parameters, got %d", ft.NumIn(), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		pt := paramType(ft, i)
		if arg == nil {
			switch pt.Kind() {
			case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
				in[i] = reflect.Zero(pt)
				continue
			default:
				return nil, fmt.Errorf("parameter %d: nil is not assignable to %s", i, pt)
			}
		}
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("parameter %d: %s is not assignable to %s", i, v.Type(), pt)
		}
		in[i] = v
	}

	out := fv.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

func paramType(ft reflect.Type, i int) reflect.Type {
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}
	return ft.In(i)
}
