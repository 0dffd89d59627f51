package sources

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/dshills/taskstorm/internal/task"
	"github.com/dshills/taskstorm/internal/workspace"
)

// PackageJSONSource exposes package.json scripts as tasks, run through the
// detected package manager ("npm run <script>", "yarn <script>", ...).
type PackageJSONSource struct {
	mu       sync.RWMutex
	path     string
	worktree workspace.WorktreeID
	tasks    []task.Task
}

// NewPackageJSONSource creates a source from a package.json file and parses it.
func NewPackageJSONSource(path string, worktree workspace.WorktreeID) (*PackageJSONSource, error) {
	s := &PackageJSONSource{path: path, worktree: worktree}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Kind returns SourceKindFile.
func (s *PackageJSONSource) Kind() task.SourceKind {
	return task.SourceKindFile
}

// Path returns the definition file path.
func (s *PackageJSONSource) Path() string {
	return s.path
}

// Reload re-parses package.json, replacing the cached tasks.
// Scripts are listed in document order.
func (s *PackageJSONSource) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	manager := detectPackageManager(filepath.Dir(s.path))

	var tasks []task.Task
	gjson.GetBytes(data, "scripts").ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if name == "" {
			return true
		}
		args := []string{name}
		if manager == "npm" || manager == "pnpm" {
			args = []string{"run", name}
		}
		tasks = append(tasks, task.NewStaticTask(task.Definition{
			Name:    name,
			Command: manager,
			Args:    args,
		}, s.worktree))
		return true
	})

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

// Tasks returns the parsed tasks in document order.
func (s *PackageJSONSource) Tasks(filter task.Filter) []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// detectPackageManager picks the package manager from lock files.
func detectPackageManager(dir string) string {
	lockFiles := []struct {
		file    string
		manager string
	}{
		{"pnpm-lock.yaml", "pnpm"},
		{"yarn.lock", "yarn"},
		{"bun.lockb", "bun"},
		{"package-lock.json", "npm"},
	}

	for _, lf := range lockFiles {
		if _, err := os.Stat(filepath.Join(dir, lf.file)); err == nil {
			return lf.manager
		}
	}
	return "npm"
}
