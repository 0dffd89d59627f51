package task

// VariableName identifies a task variable. The well-known names below are
// always candidates during context resolution; language providers may
// contribute additional names.
type VariableName = string

// Well-known variable names.
const (
	// VarRow is the 1-based row of the primary selection's start.
	VarRow VariableName = "ROW"

	// VarColumn is the 1-based column of the primary selection's start.
	VarColumn VariableName = "COLUMN"

	// VarSelectedText is the literal selected text (empty string for an
	// empty selection, never absent).
	VarSelectedText VariableName = "SELECTED_TEXT"

	// VarFile is the absolute path of the file backing the active buffer.
	VarFile VariableName = "FILE"

	// VarWorktreeRoot is the root path of the worktree owning the file.
	VarWorktreeRoot VariableName = "WORKTREE_ROOT"

	// VarSymbol is the symbol enclosing the cursor, when a language
	// provider supplies one.
	VarSymbol VariableName = "SYMBOL"
)

// Environment is an insertion-ordered mapping from variable name to plain
// text value. Keys are unique; setting an existing key overwrites its value
// in place and keeps its original position. Values never contain unresolved
// placeholders.
type Environment struct {
	names  []string
	values map[string]string
}

// NewEnvironment creates an empty environment.
func NewEnvironment() Environment {
	return Environment{values: make(map[string]string)}
}

// Set inserts or overwrites a variable. Overwrites are last-write-wins:
// language-provider values inserted after well-known ones replace them.
func (e *Environment) Set(name VariableName, value string) {
	if e.values == nil {
		e.values = make(map[string]string)
	}
	if _, ok := e.values[name]; !ok {
		e.names = append(e.names, name)
	}
	e.values[name] = value
}

// Get returns the value for a variable name.
func (e Environment) Get(name VariableName) (string, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Len returns the number of variables.
func (e Environment) Len() int {
	return len(e.names)
}

// Names returns the variable names in insertion order.
func (e Environment) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Clone returns an independent copy of the environment.
func (e Environment) Clone() Environment {
	out := Environment{
		names:  make([]string, len(e.names)),
		values: make(map[string]string, len(e.values)),
	}
	copy(out.names, e.names)
	for k, v := range e.values {
		out.values[k] = v
	}
	return out
}

// Equal reports whether two environments hold the same variables in the
// same insertion order.
func (e Environment) Equal(other Environment) bool {
	if len(e.names) != len(other.names) {
		return false
	}
	for i, name := range e.names {
		if other.names[i] != name {
			return false
		}
		if e.values[name] != other.values[name] {
			return false
		}
	}
	return true
}
