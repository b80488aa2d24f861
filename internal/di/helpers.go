package di

import (
	"context"
	"fmt"

	"github.com/xraph/inject/internal/errors"
)

// Get resolves key against c with type safety.
func Get[T any](c *Container, key *Key[T]) (T, error) {
	return GetContext(context.Background(), c, key)
}

// GetContext is Get with a context.
func GetContext[T any](ctx context.Context, c *Container, key *Key[T]) (T, error) {
	var zero T
	v, err := c.RequestContext(ctx, key)
	if err != nil {
		return zero, err
	}
	return as[T](key.Name(), v)
}

// MustGet resolves or panics - use only during startup
func MustGet[T any](c *Container, key *Key[T]) T {
	v, err := Get(c, key)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", key.Name(), err))
	}
	return v
}

// Value asserts a resolved value, as found in a dependency tree, to T.
// nil converts to the zero value.
func Value[T any](v any) (T, error) {
	return as[T]("value", v)
}

// Force calls a Lazy or Provider thunk and asserts its result to T.
func Force[T any](thunk Thunk) (T, error) {
	var zero T
	v, err := thunk()
	if err != nil {
		return zero, err
	}
	return as[T]("thunk", v)
}

// Await waits for a future and asserts its result to T. A value that is not
// a *Future is asserted directly.
func Await[T any](ctx context.Context, v any) (T, error) {
	var zero T
	if f, ok := v.(*Future); ok {
		res, err := f.Await(ctx)
		if err != nil {
			return zero, err
		}
		v = res
	}
	return as[T]("future", v)
}

func as[T any](name string, v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.ErrTypeMismatch(name, zero, v)
	}
	return typed, nil
}
