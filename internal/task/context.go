package task

// Context is the resolved execution context a task is scheduled with:
// an optional working directory plus the variable environment. A context
// is built fresh per scheduling attempt and never mutated after being
// handed to a task; history keeps its own clone.
type Context struct {
	// Cwd is the working directory for execution. Empty means none was
	// determined and the executor uses its own default.
	Cwd string

	// Variables is the resolved variable environment.
	Variables Environment
}

// NewContext creates a context with an empty variable environment.
func NewContext(cwd string) Context {
	return Context{Cwd: cwd, Variables: NewEnvironment()}
}

// Clone returns an independent copy of the context.
func (c Context) Clone() Context {
	return Context{Cwd: c.Cwd, Variables: c.Variables.Clone()}
}

// Equal reports whether two contexts are identical, including variable
// insertion order.
func (c Context) Equal(other Context) bool {
	return c.Cwd == other.Cwd && c.Variables.Equal(other.Variables)
}
