package inject

import (
	"github.com/xraph/inject/internal/errors"
)

// InjectError is the structured error returned by failed resolutions.
type InjectError = errors.InjectError

// Error codes.
const (
	CodeMissingBinding    = errors.CodeMissingBinding
	CodeScopeUnavailable  = errors.CodeScopeUnavailable
	CodeCyclicDependency  = errors.CodeCyclicDependency
	CodeAsyncMisuse       = errors.CodeAsyncMisuse
	CodeInvalidDependency = errors.CodeInvalidDependency
	CodeBuildFailed       = errors.CodeBuildFailed
	CodeBindingFailed     = errors.CodeBindingFailed
	CodeTypeMismatch      = errors.CodeTypeMismatch
	CodeInvalidConfig     = errors.CodeInvalidConfig
)

// Re-export sentinel errors for error comparison using errors.Is().
var (
	ErrMissingBindingSentinel    = errors.ErrMissingBindingSentinel
	ErrScopeUnavailableSentinel  = errors.ErrScopeUnavailableSentinel
	ErrCyclicDependencySentinel  = errors.ErrCyclicDependencySentinel
	ErrAsyncMisuseSentinel       = errors.ErrAsyncMisuseSentinel
	ErrInvalidDependencySentinel = errors.ErrInvalidDependencySentinel
	ErrBuildFailedSentinel       = errors.ErrBuildFailedSentinel
	ErrBindingFailedSentinel     = errors.ErrBindingFailedSentinel
	ErrTypeMismatchSentinel      = errors.ErrTypeMismatchSentinel
	ErrInvalidConfigSentinel     = errors.ErrInvalidConfigSentinel
)

// Re-export error helpers.
var (
	IsMissingBinding   = errors.IsMissingBinding
	IsScopeUnavailable = errors.IsScopeUnavailable
	IsCyclicDependency = errors.IsCyclicDependency
	IsAsyncMisuse      = errors.IsAsyncMisuse
	IsTypeMismatch     = errors.IsTypeMismatch
	CodeOf             = errors.CodeOf
	Absent             = errors.Absent
)
