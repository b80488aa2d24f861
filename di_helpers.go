package inject

import (
	"context"

	"github.com/xraph/inject/internal/di"
)

// Get resolves key against c with type safety.
func Get[T any](c *Container, key *Key[T]) (T, error) {
	return di.Get(c, key)
}

// GetContext is Get with a context.
func GetContext[T any](ctx context.Context, c *Container, key *Key[T]) (T, error) {
	return di.GetContext(ctx, c, key)
}

// MustGet resolves or panics - use only during startup
func MustGet[T any](c *Container, key *Key[T]) T {
	return di.MustGet(c, key)
}

// Value asserts a value found in a resolved tree to T.
func Value[T any](v any) (T, error) {
	return di.Value[T](v)
}

// Force calls a Lazy or Provider thunk and asserts its result to T.
func Force[T any](thunk Thunk) (T, error) {
	return di.Force[T](thunk)
}

// Await waits for a *Future and asserts its result to T.
func Await[T any](ctx context.Context, v any) (T, error) {
	return di.Await[T](ctx, v)
}
