package task

import "sync"

// OneshotSource holds ad-hoc tasks spawned from user input. Each spawned
// command becomes a listable task named after the command itself, so it can
// be rerun or picked again later.
type OneshotSource struct {
	mu    sync.RWMutex
	tasks []Task
}

// NewOneshotSource creates an empty oneshot source.
func NewOneshotSource() *OneshotSource {
	return &OneshotSource{}
}

// Kind returns SourceKindOneshot.
func (s *OneshotSource) Kind() SourceKind {
	return SourceKindOneshot
}

// Spawn registers a user-entered command line as a task and returns it.
// Spawning the same command twice returns the existing task.
func (s *OneshotSource) Spawn(command string) Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.Name() == command {
			return t
		}
	}
	t := NewStaticTask(Definition{
		Name:     command,
		Command:  command,
		UseShell: true,
	}, 0)
	s.tasks = append(s.tasks, t)
	return t
}

// Remove deletes a task by name.
func (s *OneshotSource) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.Name() == name {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// Tasks returns the spawned tasks in spawn order. Oneshot tasks are not
// language- or worktree-scoped, so every filter matches.
func (s *OneshotSource) Tasks(filter Filter) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}
