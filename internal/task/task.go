package task

import "github.com/dshills/taskstorm/internal/workspace"

// SourceKind identifies where a task came from.
type SourceKind string

const (
	// SourceKindFile is a task defined in a configuration file.
	SourceKindFile SourceKind = "file"
	// SourceKindOneshot is an ad-hoc task entered by the user.
	SourceKindOneshot SourceKind = "oneshot"
	// SourceKindLanguage is a task contributed by a language integration.
	SourceKindLanguage SourceKind = "language"
)

// ExecSpec is the fully-resolved execution descriptor handed to the
// external executor. All fields are plain text: no placeholders remain.
type ExecSpec struct {
	// Command is the program or command line to execute.
	Command string

	// Args are the command arguments.
	Args []string

	// Env are environment variables for the child process, including the
	// resolved task variables.
	Env map[string]string

	// Cwd is the working directory, or empty for the executor default.
	Cwd string

	// UseShell runs Command through the user's shell instead of executing
	// it directly.
	UseShell bool
}

// Task is a named, runnable unit of work. Implementations materialize an
// execution spec from a context; a task that cannot be materialized for a
// given context (for example, a referenced variable is missing) reports
// ok == false and is not scheduled.
type Task interface {
	// Name returns the stable display name of the task.
	Name() string

	// Prepare builds the execution spec for the context.
	Prepare(ctx Context) (spec *ExecSpec, ok bool)
}

// Filter narrows task listings. Zero values match everything.
type Filter struct {
	// Language restricts to tasks declared for the language name.
	Language string

	// Worktree restricts to tasks scoped to the worktree.
	Worktree workspace.WorktreeID
}

// Source provides a listable set of tasks.
type Source interface {
	// Kind returns the source kind.
	Kind() SourceKind

	// Tasks returns the source's tasks matching the filter, in the
	// source's own stable order.
	Tasks(filter Filter) []Task
}
