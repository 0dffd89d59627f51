package task

import "sync"

// Entry pairs a listed task with the kind of source it came from.
type Entry struct {
	Kind SourceKind
	Task Task
}

// scheduled is the single-slot scheduling history.
type scheduled struct {
	task Task
	ctx  Context
}

// Inventory holds the registered task sources and the scheduling history.
//
// Listing order is source-registration order, then each source's internal
// order, so pickers and name-based lookup see consistent results. The
// history is one slot deep: the last task whose prepare succeeded, together
// with a clone of the context it was scheduled with.
type Inventory struct {
	mu      sync.RWMutex
	sources []Source
	last    *scheduled
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{}
}

// AddSource registers a task source. Sources may be added at any time and
// are reflected in subsequent ListTasks calls.
func (inv *Inventory) AddSource(src Source) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.sources = append(inv.sources, src)
}

// ListTasks aggregates tasks across all sources, applying the filter.
// With usedOnly set, only previously scheduled tasks are listed (the
// history is one slot deep, so at most one task qualifies).
func (inv *Inventory) ListTasks(filter Filter, usedOnly bool) []Entry {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	var lastTask Task
	if inv.last != nil {
		lastTask = inv.last.task
	}

	var entries []Entry
	for _, src := range inv.sources {
		for _, t := range src.Tasks(filter) {
			if !matchesFilter(t, filter) {
				continue
			}
			if usedOnly && t != lastTask {
				continue
			}
			entries = append(entries, Entry{Kind: src.Kind(), Task: t})
		}
	}
	return entries
}

// TaskByName returns the first task with the given name, in listing order.
func (inv *Inventory) TaskByName(name string, filter Filter) (Entry, bool) {
	for _, entry := range inv.ListTasks(filter, false) {
		if entry.Task.Name() == name {
			return entry, true
		}
	}
	return Entry{}, false
}

// RecordScheduled overwrites the last-scheduled slot. The inventory shares
// the task handle and owns a clone of the context.
func (inv *Inventory) RecordScheduled(t Task, ctx Context) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.last = &scheduled{task: t, ctx: ctx.Clone()}
}

// LastScheduled returns the last scheduled task and a clone of the context
// it was scheduled with.
func (inv *Inventory) LastScheduled() (Task, Context, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	if inv.last == nil {
		return nil, Context{}, false
	}
	return inv.last.task, inv.last.ctx.Clone(), true
}

// matchesFilter applies language/worktree scoping for tasks that declare
// it. Tasks without scoping metadata always match.
func matchesFilter(t Task, filter Filter) bool {
	st, ok := t.(*StaticTask)
	if !ok {
		return true
	}
	if filter.Language != "" && st.Language() != "" && st.Language() != filter.Language {
		return false
	}
	if filter.Worktree != 0 && st.Worktree() != 0 && st.Worktree() != filter.Worktree {
		return false
	}
	return true
}
