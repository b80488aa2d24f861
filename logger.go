package inject

import "github.com/xraph/inject/internal/logger"

// Re-export logger types
type (
	Logger        = logger.Logger
	Field         = logger.Field
	LogLevel      = logger.Level
	LoggingConfig = logger.LoggingConfig
)

// Re-export logger constants
const (
	LevelDebug = logger.LevelDebug
	LevelInfo  = logger.LevelInfo
	LevelWarn  = logger.LevelWarn
	LevelError = logger.LevelError
)

// Re-export logger constructors
var (
	NewLogger            = logger.NewLogger
	NewDevelopmentLogger = logger.NewDevelopmentLogger
	NewProductionLogger  = logger.NewProductionLogger
	NewNoopLogger        = logger.NewNoopLogger
	NewZapLogger         = logger.NewZapLogger
)

// Re-export field constructors
var (
	String   = logger.String
	Strings  = logger.Strings
	Int      = logger.Int
	Bool     = logger.Bool
	Duration = logger.Duration
	Error    = logger.Error
	Any      = logger.Any
)
