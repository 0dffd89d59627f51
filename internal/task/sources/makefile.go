package sources

import (
	"bufio"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/dshills/taskstorm/internal/task"
	"github.com/dshills/taskstorm/internal/workspace"
)

var (
	targetPattern       = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_-]*)\s*:(?:[^=]|$)`)
	phonyCapturePattern = regexp.MustCompile(`^\.PHONY\s*:\s*(.+)$`)
)

// MakefileSource exposes Makefile targets as "make <target>" tasks.
// When the Makefile declares .PHONY targets, only those are listed; they
// are typically the runnable tasks.
type MakefileSource struct {
	mu       sync.RWMutex
	path     string
	worktree workspace.WorktreeID
	tasks    []task.Task
}

// NewMakefileSource creates a source from a Makefile and parses it.
func NewMakefileSource(path string, worktree workspace.WorktreeID) (*MakefileSource, error) {
	s := &MakefileSource{path: path, worktree: worktree}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Kind returns SourceKindFile.
func (s *MakefileSource) Kind() task.SourceKind {
	return task.SourceKindFile
}

// Path returns the Makefile path.
func (s *MakefileSource) Path() string {
	return s.path
}

// Reload re-parses the Makefile, replacing the cached tasks.
func (s *MakefileSource) Reload() error {
	file, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer file.Close()

	phonyTargets := make(map[string]bool)
	var targets []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if matches := phonyCapturePattern.FindStringSubmatch(line); matches != nil {
			for _, target := range strings.Fields(matches[1]) {
				phonyTargets[target] = true
			}
			continue
		}

		if matches := targetPattern.FindStringSubmatch(line); matches != nil {
			name := matches[1]
			// Internal targets and pattern rules are not runnable tasks.
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || strings.Contains(name, "%") {
				continue
			}
			targets = append(targets, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	var tasks []task.Task
	for _, name := range targets {
		if len(phonyTargets) > 0 && !phonyTargets[name] {
			continue
		}
		tasks = append(tasks, task.NewStaticTask(task.Definition{
			Name:    name,
			Command: "make",
			Args:    []string{name},
		}, s.worktree))
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

// Tasks returns the parsed tasks in file order.
func (s *MakefileSource) Tasks(filter task.Filter) []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}
