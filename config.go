package inject

import "github.com/xraph/inject/internal/config"

// Config is the YAML configuration of a root container's ambient stack.
type Config = config.Config

// Configuration loaders.
var (
	DefaultConfig = config.Default
	ParseConfig   = config.Parse
	LoadConfig    = config.Load
)
