package di

import "github.com/google/uuid"

// Scope tags a caching tier. Scopes are compared by identity only: two
// scopes created with the same name are still distinct.
type Scope struct {
	id   uuid.UUID
	name string
}

// NewScope creates a new scope. The name is used for diagnostics only.
func NewScope(name string) *Scope {
	return &Scope{id: uuid.New(), name: name}
}

// Singleton is owned by every root container.
var Singleton = NewScope("Singleton")

// ID returns the scope's generated identity.
func (s *Scope) ID() uuid.UUID {
	return s.id
}

// Name returns the display name of the scope.
func (s *Scope) Name() string {
	if s == nil {
		return ""
	}
	if s.name == "" {
		return "Scope#" + s.id.String()[:8]
	}
	return s.name
}

func (s *Scope) String() string {
	return s.Name()
}
