package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xraph/inject/internal/errors"
	"github.com/xraph/inject/internal/logger"
	"github.com/xraph/inject/internal/observability"
)

// Config holds the ambient settings of a root container.
//
//	name: api
//	logging:
//	  level: debug
//	  format: json
//	metrics:
//	  enabled: true
//	  namespace: inject
//	tracing:
//	  enabled: true
type Config struct {
	Name    string                      `yaml:"name"`
	Logging logger.LoggingConfig        `yaml:"logging"`
	Metrics observability.MetricsConfig `yaml:"metrics"`
	Tracing observability.TracingConfig `yaml:"tracing"`
}

// Default returns the configuration used when none is supplied.
func Default() Config {
	return Config{
		Name: "root",
		Logging: logger.LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: observability.MetricsConfig{
			Namespace: "inject",
		},
		Tracing: observability.TracingConfig{
			InstrumentationName: observability.DefaultInstrumentationName,
		},
	}
}

// Parse decodes YAML over Default. Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.ErrInvalidConfig("yaml", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	if _, ok := logger.ParseLevel(c.Logging.Level); !ok {
		return errors.ErrInvalidConfig("logging.level", fmt.Errorf("unknown level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return errors.ErrInvalidConfig("logging.format", fmt.Errorf("unknown format %q", c.Logging.Format))
	}
	return nil
}
