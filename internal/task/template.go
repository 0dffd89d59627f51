package task

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// variablePattern matches ${NAME} and ${env:NAME} references.
var variablePattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_:]*)\}`)

// MissingVariableError reports a template reference to a variable that is
// not present in the environment. Tasks whose templates hit this error
// cannot be materialized for the context.
type MissingVariableError struct {
	// Name is the unresolved variable name.
	Name string
}

// Error implements the error interface.
func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("variable %q not set in task environment", e.Name)
}

// Expand substitutes ${NAME} references from the environment and
// ${env:NAME} references from the process environment. A ${NAME} whose
// name is absent from env fails with *MissingVariableError; ${env:NAME}
// never fails and expands to empty for unset process variables.
func Expand(input string, env Environment) (string, error) {
	var missing *MissingVariableError

	out := variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		name := match[2 : len(match)-1]

		if rest, ok := strings.CutPrefix(name, "env:"); ok {
			return os.Getenv(rest)
		}

		if value, ok := env.Get(name); ok {
			return value
		}
		if missing == nil {
			missing = &MissingVariableError{Name: name}
		}
		return match
	})

	if missing != nil {
		return "", missing
	}
	return out, nil
}

// ExpandAll expands every string in the slice.
func ExpandAll(inputs []string, env Environment) ([]string, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	out := make([]string, len(inputs))
	for i, s := range inputs {
		expanded, err := Expand(s, env)
		if err != nil {
			return nil, err
		}
		out[i] = expanded
	}
	return out, nil
}
