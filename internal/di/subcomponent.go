package di

// Subcomponent creates a child of the container it was resolved in.
type Subcomponent func(args ...any) *Container

// SubcomponentFunc configures a freshly created child container from args.
// Returning nil keeps the child it was given.
type SubcomponentFunc func(c *Container, args ...any) *Container

// NewSubcomponent declares a key whose default binding is a Subcomponent.
// Every call of that factory creates a child owning scopes of the container
// the key was resolved in, then applies fn.
func NewSubcomponent(name string, fn SubcomponentFunc, scopes ...*Scope) *Key[Subcomponent] {
	return NewKey[Subcomponent](
		Named(name),
		DefaultWith(ContainerKey, func(deps any) (Subcomponent, error) {
			parent := deps.(*Container)
			return func(args ...any) *Container {
				child := parent.CreateChild(scopes...)
				if out := fn(child, args...); out != nil {
					return out
				}
				return child
			}, nil
		}),
	)
}
