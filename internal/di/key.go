package di

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Dependency is a node of a dependency tree that the resolver understands
// beyond plain sequences and string-keyed mappings: keys and wrappers.
type Dependency interface {
	dependencyNode()
}

// Keyed is implemented by every *Key[T] regardless of T.
type Keyed interface {
	Dependency
	ID() uuid.UUID
	Name() string
	info() *keyInfo
}

type keyInfo struct {
	id    uuid.UUID
	name  string
	typ   reflect.Type
	owner reflect.Type
	scope *Scope
	def   *binding
}

func (k *keyInfo) String() string {
	if k.name != "" {
		return k.name
	}
	if k.owner != nil {
		return k.owner.String()
	}
	return fmt.Sprintf("Key[%s]#%s", k.typ, k.id.String()[:8])
}

// Key is an identity token for "a value of logical type T". Keys are compared
// by identity; the display name never participates in lookups.
type Key[T any] struct {
	ki *keyInfo
}

// KeyOption configures a key at declaration.
type KeyOption func(*keyInfo)

// NewKey declares a new key for values of type T.
func NewKey[T any](opts ...KeyOption) *Key[T] {
	ki := &keyInfo{id: uuid.New(), typ: reflect.TypeFor[T]()}
	for _, opt := range opts {
		opt(ki)
	}
	return &Key[T]{ki: ki}
}

// Named sets the display name used in logs and error paths.
func Named(name string) KeyOption {
	return func(ki *keyInfo) {
		ki.name = name
	}
}

// OwnedBy marks the key as belonging to the type of v. Without an explicit
// name the owner's type name is displayed.
func OwnedBy(v any) KeyOption {
	return func(ki *keyInfo) {
		ki.owner = reflect.TypeOf(v)
	}
}

// InScope sets the scope used when a binding does not name one.
func InScope(scope *Scope) KeyOption {
	return func(ki *keyInfo) {
		ki.scope = scope
	}
}

// DefaultFunc gives the key a default binding with no dependencies.
func DefaultFunc[V any](fn func() V) KeyOption {
	return func(ki *keyInfo) {
		mustAssign(ki, reflect.TypeFor[V]())
		ki.def = newBinding(nil, func(any) (any, error) { return fn(), nil }, nil)
		ki.def.fallback = true
	}
}

// DefaultInstance gives the key a default binding that returns a fixed value.
func DefaultInstance[V any](value V) KeyOption {
	return func(ki *keyInfo) {
		mustAssign(ki, reflect.TypeFor[V]())
		ki.def = newInstanceBinding(value)
		ki.def.fallback = true
	}
}

// DefaultWith gives the key a default binding computed from deps.
func DefaultWith[V any](deps any, fn func(deps any) (V, error)) KeyOption {
	return func(ki *keyInfo) {
		mustAssign(ki, reflect.TypeFor[V]())
		ki.def = newBinding(deps, func(d any) (any, error) { return fn(d) }, nil)
		ki.def.fallback = true
	}
}

func mustAssign(ki *keyInfo, produced reflect.Type) {
	if !produced.AssignableTo(ki.typ) {
		panic(fmt.Sprintf("inject: default for %s produces %s, not %s", ki, produced, ki.typ))
	}
}

func (k *Key[T]) dependencyNode() {}

func (k *Key[T]) info() *keyInfo {
	if k == nil {
		return nil
	}
	return k.ki
}

// ID returns the key's generated identity.
func (k *Key[T]) ID() uuid.UUID {
	return k.ki.id
}

// Name returns the display name of the key.
func (k *Key[T]) Name() string {
	if k == nil {
		return "<nil>"
	}
	return k.ki.String()
}

func (k *Key[T]) String() string {
	return k.Name()
}

// Scope returns the key's default scope, or nil.
func (k *Key[T]) Scope() *Scope {
	return k.ki.scope
}

// Type returns the logical type of the values this key identifies.
func (k *Key[T]) Type() reflect.Type {
	return k.ki.typ
}

// Lazy is shorthand for Lazy(k).
func (k *Key[T]) Lazy() *LazyKey {
	return Lazy(k)
}

// Provider is shorthand for Provider(k).
func (k *Key[T]) Provider() *ProviderKey {
	return Provider(k)
}

// Optional is shorthand for Optional(k).
func (k *Key[T]) Optional() *OptionalKey {
	return Optional(k)
}

// Async is shorthand for Async(k).
func (k *Key[T]) Async() *AsyncKey {
	return Async(k)
}

// Build is shorthand for Build(k, args...).
func (k *Key[T]) Build(args ...any) *BuildKey {
	return Build(k, args...)
}

// ContainerKey resolves to the container in which resolution takes place.
var ContainerKey = NewKey[*Container](Named("Container"))
