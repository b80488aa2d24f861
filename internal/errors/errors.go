package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// ERROR CODES
// =============================================================================

// Error code constants for structured errors
const (
	CodeMissingBinding    = "MISSING_BINDING"
	CodeScopeUnavailable  = "SCOPE_UNAVAILABLE"
	CodeCyclicDependency  = "CYCLIC_DEPENDENCY"
	CodeAsyncMisuse       = "ASYNC_MISUSE"
	CodeInvalidDependency = "INVALID_DEPENDENCY"
	CodeBuildFailed       = "BUILD_FAILED"
	CodeBindingFailed     = "BINDING_FAILED"
	CodeTypeMismatch      = "TYPE_MISMATCH"
	CodeInvalidConfig     = "INVALID_CONFIG"
)

// =============================================================================
// INJECT ERROR (STRUCTURED ERROR)
// =============================================================================

// InjectError represents a structured resolution error with context.
// Path lists the display names of the keys being resolved, outermost first;
// the last element is the key at which the failure occurred.
type InjectError struct {
	Code      string
	Message   string
	Path      []string
	Cause     error
	Timestamp time.Time
	Context   map[string]any
}

func (e *InjectError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Path) > 1 {
		b.WriteString(" (path: ")
		b.WriteString(strings.Join(e.Path, " -> "))
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *InjectError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is interface for InjectError.
// Compares by error code, allowing matching against sentinel errors.
func (e *InjectError) Is(target error) bool {
	t, ok := target.(*InjectError)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// WithContext adds context to the error
func (e *InjectError) WithContext(key string, value any) *InjectError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Key returns the display name of the key at which the failure occurred.
func (e *InjectError) Key() string {
	if len(e.Path) == 0 {
		return ""
	}
	return e.Path[len(e.Path)-1]
}

func newError(code, message string, path []string, cause error) *InjectError {
	return &InjectError{
		Code:      code,
		Message:   message,
		Path:      append([]string(nil), path...),
		Cause:     cause,
		Timestamp: time.Now(),
		Context:   make(map[string]any),
	}
}

func last(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}
	return path[len(path)-1]
}

// ErrMissingBinding reports a key with no explicit binding on the ancestor
// chain and no default binding.
func ErrMissingBinding(path []string) *InjectError {
	return newError(CodeMissingBinding, "no binding for key '"+last(path)+"'", path, nil)
}

// ErrScopeUnavailable reports a scoped binding whose scope is not owned by
// any ancestor of the requesting container.
func ErrScopeUnavailable(scope string, path []string) *InjectError {
	return newError(CodeScopeUnavailable,
		"scope '"+scope+"' required by key '"+last(path)+"' is not owned by any ancestor container",
		path, nil).WithContext("scope", scope)
}

// ErrCyclicDependency reports a key that transitively requires itself.
func ErrCyclicDependency(path []string) *InjectError {
	return newError(CodeCyclicDependency, "cyclic dependency detected: "+strings.Join(path, " -> "), path, nil)
}

// ErrAsyncMisuse reports an asynchronous binding reached by a synchronous request path.
func ErrAsyncMisuse(path []string) *InjectError {
	return newError(CodeAsyncMisuse,
		"key '"+last(path)+"' can only be produced asynchronously; wrap it with Async",
		path, nil)
}

// ErrInvalidDependency reports a dependency tree node that is neither a key,
// a wrapper, a sequence, a mapping nor nil.
func ErrInvalidDependency(value any, path []string) *InjectError {
	return newError(CodeInvalidDependency, fmt.Sprintf("invalid dependency %T", value), path, nil).
		WithContext("type", fmt.Sprintf("%T", value))
}

// ErrBuildFailed reports a Build wrapper whose target could not be invoked.
func ErrBuildFailed(path []string, cause error) *InjectError {
	return newError(CodeBuildFailed, "build of '"+last(path)+"' failed", path, cause)
}

// ErrBindingFailed wraps an error returned by a binding function.
func ErrBindingFailed(path []string, cause error) *InjectError {
	return newError(CodeBindingFailed, "binding for key '"+last(path)+"' failed", path, cause)
}

// ErrTypeMismatch reports a resolved value that is not of the requested type.
func ErrTypeMismatch(key string, want, got any) *InjectError {
	return newError(CodeTypeMismatch,
		fmt.Sprintf("key '%s' resolved to %T, not %T", key, got, want),
		[]string{key}, nil)
}

// ErrInvalidConfig reports a configuration value that failed validation.
func ErrInvalidConfig(configKey string, cause error) *InjectError {
	return newError(CodeInvalidConfig, "invalid configuration for key '"+configKey+"'", nil, cause).
		WithContext("config_key", configKey)
}

// =============================================================================
// STANDARD ERRORS PACKAGE INTEGRATION
// =============================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// =============================================================================
// SENTINEL ERRORS (for use with Is)
// =============================================================================

var (
	ErrMissingBindingSentinel    = &InjectError{Code: CodeMissingBinding}
	ErrScopeUnavailableSentinel  = &InjectError{Code: CodeScopeUnavailable}
	ErrCyclicDependencySentinel  = &InjectError{Code: CodeCyclicDependency}
	ErrAsyncMisuseSentinel       = &InjectError{Code: CodeAsyncMisuse}
	ErrInvalidDependencySentinel = &InjectError{Code: CodeInvalidDependency}
	ErrBuildFailedSentinel       = &InjectError{Code: CodeBuildFailed}
	ErrBindingFailedSentinel     = &InjectError{Code: CodeBindingFailed}
	ErrTypeMismatchSentinel      = &InjectError{Code: CodeTypeMismatch}
	ErrInvalidConfigSentinel     = &InjectError{Code: CodeInvalidConfig}
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsMissingBinding checks if the error is a missing binding error
func IsMissingBinding(err error) bool {
	return Is(err, ErrMissingBindingSentinel)
}

// IsScopeUnavailable checks if the error is a scope unavailable error
func IsScopeUnavailable(err error) bool {
	return Is(err, ErrScopeUnavailableSentinel)
}

// IsCyclicDependency checks if the error is a cyclic dependency error
func IsCyclicDependency(err error) bool {
	return Is(err, ErrCyclicDependencySentinel)
}

// IsAsyncMisuse checks if the error is an async misuse error
func IsAsyncMisuse(err error) bool {
	return Is(err, ErrAsyncMisuseSentinel)
}

// IsTypeMismatch checks if the error is a type mismatch error
func IsTypeMismatch(err error) bool {
	return Is(err, ErrTypeMismatchSentinel)
}

// CodeOf returns the code of the outermost InjectError in err's chain, or "".
func CodeOf(err error) string {
	var ie *InjectError
	if As(err, &ie) {
		return ie.Code
	}
	return ""
}

// Absent reports whether err means "no value" rather than misconfiguration.
// Only the outermost error's code is considered: a missing dependency deeper
// in the tree propagates unwrapped and is absent, while an error returned by
// a binding function arrives as BINDING_FAILED and is not.
func Absent(err error) bool {
	switch CodeOf(err) {
	case CodeMissingBinding, CodeScopeUnavailable:
		return true
	default:
		return false
	}
}
