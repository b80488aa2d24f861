package inject

import (
	"github.com/xraph/inject/internal/di"
)

// Container holds bindings, owned scopes and their cached values.
type Container = di.Container

// Key identifies a value of logical type T.
type Key[T any] = di.Key[T]

// Keyed is implemented by every *Key[T].
type Keyed = di.Keyed

// Dependency is a key or a wrapper inside a dependency tree.
type Dependency = di.Dependency

// KeyOption configures a key at declaration.
type KeyOption = di.KeyOption

// Scope tags a caching tier owned by containers.
type Scope = di.Scope

// Factory produces a value from its resolved dependency tree.
type Factory = di.Factory

// AsyncFactory produces a value asynchronously.
type AsyncFactory = di.AsyncFactory

// Thunk is delivered for Lazy and Provider dependencies.
type Thunk = di.Thunk

// Future is the handle of a deferred resolution.
type Future = di.Future

// Option configures a root container.
type Option = di.Option

// BindingInfo contains diagnostic information about a key.
type BindingInfo = di.BindingInfo

// DependencyGraph orders keys by their eager dependencies.
type DependencyGraph = di.DependencyGraph

// Wrapper types.
type (
	LazyKey     = di.LazyKey
	ProviderKey = di.ProviderKey
	OptionalKey = di.OptionalKey
	BuildKey    = di.BuildKey
	AsyncKey    = di.AsyncKey
)

// Modules and subcomponents.
type (
	Installer        = di.Installer
	Module           = di.Module
	ModuleFunc       = di.ModuleFunc
	Subcomponent     = di.Subcomponent
	SubcomponentFunc = di.SubcomponentFunc
)

// Singleton is owned by every root container.
var Singleton = di.Singleton

// ContainerKey resolves to the container in which resolution takes place.
var ContainerKey = di.ContainerKey

// Constructors.
var (
	NewRoot            = di.NewRoot
	NewScope           = di.NewScope
	NewModule          = di.NewModule
	NewSubcomponent    = di.NewSubcomponent
	NewDependencyGraph = di.NewDependencyGraph
	Call               = di.Call
	Completed          = di.Completed
	Failed             = di.Failed
)

// Wrappers.
var (
	Lazy     = di.Lazy
	Provider = di.Provider
	Optional = di.Optional
	Build    = di.Build
	Async    = di.Async
)

// Key options.
var (
	Named   = di.Named
	OwnedBy = di.OwnedBy
	InScope = di.InScope
)

// Container options.
var (
	WithName           = di.WithName
	WithLogger         = di.WithLogger
	WithMetrics        = di.WithMetrics
	WithMetricsConfig  = di.WithMetricsConfig
	WithTracerProvider = di.WithTracerProvider
	WithConfig         = di.WithConfig
)

// NewKey declares a new key for values of type T.
func NewKey[T any](opts ...KeyOption) *Key[T] {
	return di.NewKey[T](opts...)
}

// DefaultFunc gives a key a default binding with no dependencies.
func DefaultFunc[V any](fn func() V) KeyOption {
	return di.DefaultFunc(fn)
}

// DefaultInstance gives a key a default binding returning value.
func DefaultInstance[V any](value V) KeyOption {
	return di.DefaultInstance(value)
}

// DefaultWith gives a key a default binding computed from deps.
func DefaultWith[V any](deps any, fn func(deps any) (V, error)) KeyOption {
	return di.DefaultWith(deps, fn)
}
