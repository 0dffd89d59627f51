package sources

import (
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/taskstorm/internal/task"
	"github.com/dshills/taskstorm/internal/workspace"
)

// tomlFile is the structure of a tasks.toml file.
type tomlFile struct {
	Tasks []task.Definition `toml:"task"`
}

// TOMLSource loads task definitions from a tasks.toml file:
//
//	[[task]]
//	name = "test current file"
//	command = "cargo"
//	args = ["test", "--", "${SYMBOL}"]
//
//	[[task]]
//	name = "build"
//	command = "make"
//	args = ["build"]
type TOMLSource struct {
	mu       sync.RWMutex
	path     string
	worktree workspace.WorktreeID
	tasks    []task.Task
}

// NewTOMLSource creates a source from a tasks.toml file and parses it.
func NewTOMLSource(path string, worktree workspace.WorktreeID) (*TOMLSource, error) {
	s := &TOMLSource{path: path, worktree: worktree}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Kind returns SourceKindFile.
func (s *TOMLSource) Kind() task.SourceKind {
	return task.SourceKindFile
}

// Path returns the definition file path.
func (s *TOMLSource) Path() string {
	return s.path
}

// Reload re-parses the definition file, replacing the cached tasks.
func (s *TOMLSource) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var file tomlFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}

	tasks := make([]task.Task, 0, len(file.Tasks))
	for _, def := range file.Tasks {
		if def.Name == "" || def.Command == "" {
			continue
		}
		tasks = append(tasks, task.NewStaticTask(def, s.worktree))
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

// Tasks returns the parsed tasks in file order.
func (s *TOMLSource) Tasks(filter task.Filter) []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}
