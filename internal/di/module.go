package di

import "github.com/xraph/inject/internal/logger"

// Installer mutates a container, typically by registering bindings.
type Installer interface {
	Install(c *Container) *Container
}

// ModuleFunc adapts a function to an Installer. Returning nil keeps c.
type ModuleFunc func(c *Container) *Container

// Install calls f(c).
func (f ModuleFunc) Install(c *Container) *Container {
	return f(c)
}

// Module is a named, reusable group of installers. Modules nest.
type Module struct {
	name  string
	parts []Installer
}

// NewModule creates a module that installs parts in order.
func NewModule(name string, parts ...Installer) *Module {
	return &Module{name: name, parts: parts}
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Install applies every part to c in order.
func (m *Module) Install(c *Container) *Container {
	c.obs.log.Debug("applying module",
		logger.String("module", m.name),
		logger.String("container", c.name),
	)
	return c.Apply(m.parts...)
}
