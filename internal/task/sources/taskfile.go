package sources

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dshills/taskstorm/internal/task"
	"github.com/dshills/taskstorm/internal/workspace"
)

// taskfileDoc is the subset of the Taskfile.yml schema this source reads.
type taskfileDoc struct {
	Version string                   `yaml:"version"`
	Tasks   map[string]taskfileEntry `yaml:"tasks"`
}

type taskfileEntry struct {
	Desc string   `yaml:"desc"`
	Cmds []string `yaml:"cmds"`
}

// TaskfileSource exposes Taskfile.yml tasks as "task <name>" invocations.
type TaskfileSource struct {
	mu       sync.RWMutex
	path     string
	worktree workspace.WorktreeID
	tasks    []task.Task
}

// NewTaskfileSource creates a source from a Taskfile.yml and parses it.
func NewTaskfileSource(path string, worktree workspace.WorktreeID) (*TaskfileSource, error) {
	s := &TaskfileSource{path: path, worktree: worktree}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Kind returns SourceKindFile.
func (s *TaskfileSource) Kind() task.SourceKind {
	return task.SourceKindFile
}

// Path returns the Taskfile path.
func (s *TaskfileSource) Path() string {
	return s.path
}

// Reload re-parses the Taskfile, replacing the cached tasks.
// YAML maps are unordered, so tasks are listed in sorted name order.
func (s *TaskfileSource) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var doc taskfileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}

	names := make([]string, 0, len(doc.Tasks))
	for name := range doc.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	tasks := make([]task.Task, 0, len(names))
	for _, name := range names {
		tasks = append(tasks, task.NewStaticTask(task.Definition{
			Name:    name,
			Command: "task",
			Args:    []string{name},
		}, s.worktree))
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

// Tasks returns the parsed tasks in sorted name order.
func (s *TaskfileSource) Tasks(filter task.Filter) []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}
