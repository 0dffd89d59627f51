package task

import "github.com/dshills/taskstorm/internal/workspace"

// Definition is a declarative task as parsed from a configuration file.
// Command, Args, Env values, and Cwd may reference ${NAME} variables.
type Definition struct {
	// Name is the display name of the task.
	Name string `json:"name" toml:"name" yaml:"name"`

	// Command is the program or command line to run.
	Command string `json:"command" toml:"command" yaml:"command"`

	// Args are the command arguments.
	Args []string `json:"args,omitempty" toml:"args,omitempty" yaml:"args,omitempty"`

	// Env are extra environment variables for the child process.
	Env map[string]string `json:"env,omitempty" toml:"env,omitempty" yaml:"env,omitempty"`

	// Cwd overrides the context working directory when set.
	Cwd string `json:"cwd,omitempty" toml:"cwd,omitempty" yaml:"cwd,omitempty"`

	// Language scopes the task to buffers of the language, when set.
	Language string `json:"language,omitempty" toml:"language,omitempty" yaml:"language,omitempty"`

	// UseShell runs Command through the user's shell.
	UseShell bool `json:"use_shell,omitempty" toml:"use_shell,omitempty" yaml:"use_shell,omitempty"`
}

// StaticTask is a Task backed by a Definition.
type StaticTask struct {
	def      Definition
	worktree workspace.WorktreeID
}

// NewStaticTask creates a task from a definition. worktree scopes the task
// to a single worktree; zero means workspace-wide.
func NewStaticTask(def Definition, worktree workspace.WorktreeID) *StaticTask {
	return &StaticTask{def: def, worktree: worktree}
}

// Name returns the task's display name.
func (t *StaticTask) Name() string {
	return t.def.Name
}

// Definition returns the backing definition.
func (t *StaticTask) Definition() Definition {
	return t.def
}

// Worktree returns the worktree the task is scoped to (0 = any).
func (t *StaticTask) Worktree() workspace.WorktreeID {
	return t.worktree
}

// Language returns the language the task is scoped to (empty = any).
func (t *StaticTask) Language() string {
	return t.def.Language
}

// Prepare expands the definition against the context. Any template
// reference to a variable missing from the context environment makes the
// task unpreparable and Prepare reports ok == false.
func (t *StaticTask) Prepare(ctx Context) (*ExecSpec, bool) {
	command, err := Expand(t.def.Command, ctx.Variables)
	if err != nil {
		return nil, false
	}

	args, err := ExpandAll(t.def.Args, ctx.Variables)
	if err != nil {
		return nil, false
	}

	cwd := ctx.Cwd
	if t.def.Cwd != "" {
		cwd, err = Expand(t.def.Cwd, ctx.Variables)
		if err != nil {
			return nil, false
		}
	}

	// Child environment: resolved task variables first, then the
	// definition's own env entries on top.
	env := make(map[string]string, ctx.Variables.Len()+len(t.def.Env))
	for _, name := range ctx.Variables.Names() {
		value, _ := ctx.Variables.Get(name)
		env[name] = value
	}
	for name, value := range t.def.Env {
		expanded, err := Expand(value, ctx.Variables)
		if err != nil {
			return nil, false
		}
		env[name] = expanded
	}

	return &ExecSpec{
		Command:  command,
		Args:     args,
		Env:      env,
		Cwd:      cwd,
		UseShell: t.def.UseShell,
	}, true
}
