// Package workspace provides the multi-root worktree model the task system
// resolves working directories and worktree-scoped variables against.
//
// A workspace holds an ordered set of worktrees (independent project roots)
// plus the registry of open entries (files) and the active entry the user
// last interacted with. It supports both single-root and multi-root layouts.
package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Common errors.
var (
	ErrNoWorktrees      = errors.New("workspace has no worktrees")
	ErrWorktreeNotFound = errors.New("worktree not found in workspace")
	ErrWorktreeExists   = errors.New("worktree already in workspace")
	ErrEntryNotFound    = errors.New("entry not found in workspace")
)

// WorktreeID identifies a worktree within a workspace.
type WorktreeID int64

// EntryID identifies an open entry (file) within a workspace.
type EntryID int64

// Worktree represents a single project root.
type Worktree struct {
	// ID is the worktree identifier, unique within the workspace.
	ID WorktreeID

	// Path is the absolute local filesystem path of the root.
	Path string

	// Name is the display name for the worktree.
	Name string

	// Visible reports whether the worktree is shown in the project panel.
	Visible bool

	// Local reports whether the worktree is on the local filesystem.
	Local bool

	// RootIsDir reports whether the root entry is a directory
	// (false for single-file worktrees).
	RootIsDir bool
}

// entry tracks an open file and the worktree that owns it.
type entry struct {
	worktree WorktreeID
	path     string
}

// Workspace is a collection of worktrees plus open-entry state.
type Workspace struct {
	mu           sync.RWMutex
	worktrees    []Worktree
	entries      map[EntryID]entry
	active       EntryID
	nextWorktree WorktreeID
	nextEntry    EntryID
}

// New creates an empty workspace.
func New() *Workspace {
	return &Workspace{entries: make(map[EntryID]entry)}
}

// NewFromPaths creates a workspace with one worktree per path.
func NewFromPaths(paths ...string) (*Workspace, error) {
	if len(paths) == 0 {
		return nil, ErrNoWorktrees
	}
	ws := New()
	for _, path := range paths {
		if _, err := ws.AddWorktree(path); err != nil {
			return nil, err
		}
	}
	return ws, nil
}

// AddWorktree adds a project root and returns its worktree.
// The root is marked visible and local; RootIsDir reflects the filesystem
// when the path exists, and defaults to true otherwise.
func (w *Workspace) AddWorktree(path string) (Worktree, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Worktree{}, err
	}

	rootIsDir := true
	if info, err := os.Stat(absPath); err == nil {
		rootIsDir = info.IsDir()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, wt := range w.worktrees {
		if wt.Path == absPath {
			return Worktree{}, ErrWorktreeExists
		}
	}

	w.nextWorktree++
	wt := Worktree{
		ID:        w.nextWorktree,
		Path:      absPath,
		Name:      filepath.Base(absPath),
		Visible:   true,
		Local:     true,
		RootIsDir: rootIsDir,
	}
	w.worktrees = append(w.worktrees, wt)
	return wt, nil
}

// SetWorktreeVisible sets the visibility of a worktree.
func (w *Workspace) SetWorktreeVisible(id WorktreeID, visible bool) error {
	return w.updateWorktree(id, func(wt *Worktree) { wt.Visible = visible })
}

// SetWorktreeLocal marks a worktree as local or remote.
func (w *Workspace) SetWorktreeLocal(id WorktreeID, local bool) error {
	return w.updateWorktree(id, func(wt *Worktree) { wt.Local = local })
}

// SetWorktreeRootIsDir overrides whether the root entry is a directory.
func (w *Workspace) SetWorktreeRootIsDir(id WorktreeID, isDir bool) error {
	return w.updateWorktree(id, func(wt *Worktree) { wt.RootIsDir = isDir })
}

func (w *Workspace) updateWorktree(id WorktreeID, fn func(*Worktree)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.worktrees {
		if w.worktrees[i].ID == id {
			fn(&w.worktrees[i])
			return nil
		}
	}
	return ErrWorktreeNotFound
}

// Worktrees returns the worktrees in addition order.
func (w *Workspace) Worktrees() []Worktree {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Worktree, len(w.worktrees))
	copy(out, w.worktrees)
	return out
}

// WorktreeByID returns the worktree with the given ID.
func (w *Workspace) WorktreeByID(id WorktreeID) (Worktree, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, wt := range w.worktrees {
		if wt.ID == id {
			return wt, nil
		}
	}
	return Worktree{}, ErrWorktreeNotFound
}

// WorktreeForFile returns the worktree whose root contains the given
// absolute path. When roots nest, the deepest containing root wins.
func (w *Workspace) WorktreeForFile(absPath string) (Worktree, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	absPath = filepath.Clean(absPath)
	var best Worktree
	found := false
	for _, wt := range w.worktrees {
		if !containsPath(wt.Path, absPath) {
			continue
		}
		if !found || len(wt.Path) > len(best.Path) {
			best = wt
			found = true
		}
	}
	return best, found
}

// OpenEntry registers an open file under a worktree and returns its entry ID.
func (w *Workspace) OpenEntry(worktree WorktreeID, absPath string) (EntryID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	found := false
	for _, wt := range w.worktrees {
		if wt.ID == worktree {
			found = true
			break
		}
	}
	if !found {
		return 0, ErrWorktreeNotFound
	}

	w.nextEntry++
	w.entries[w.nextEntry] = entry{worktree: worktree, path: filepath.Clean(absPath)}
	return w.nextEntry, nil
}

// CloseEntry removes an open entry. Closing the active entry clears it.
func (w *Workspace) CloseEntry(id EntryID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.entries, id)
	if w.active == id {
		w.active = 0
	}
}

// SetActiveEntry marks the entry the user last interacted with.
func (w *Workspace) SetActiveEntry(id EntryID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entries[id]; !ok {
		return ErrEntryNotFound
	}
	w.active = id
	return nil
}

// ClearActiveEntry clears the active entry.
func (w *Workspace) ClearActiveEntry() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = 0
}

// ActiveEntry returns the active entry ID, if any.
func (w *Workspace) ActiveEntry() (EntryID, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active, w.active != 0
}

// WorktreeContaining returns the worktree that owns an entry.
func (w *Workspace) WorktreeContaining(id EntryID) (Worktree, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ent, ok := w.entries[id]
	if !ok {
		return Worktree{}, false
	}
	for _, wt := range w.worktrees {
		if wt.ID == ent.worktree {
			return wt, true
		}
	}
	return Worktree{}, false
}

// containsPath reports whether path is root or lives under root.
func containsPath(root, path string) bool {
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
