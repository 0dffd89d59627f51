package workspace

import "fmt"

// AmbiguousRootError reports that a working directory could not be chosen
// because multiple worktrees qualify and none owns the active entry.
// Guessing a wrong working directory silently corrupts task execution, so
// this condition always surfaces as a hard failure.
type AmbiguousRootError struct {
	// Candidates is the number of qualifying worktrees.
	Candidates int
}

// Error implements the error interface.
func (e *AmbiguousRootError) Error() string {
	return fmt.Sprintf("cannot determine working directory: %d candidate worktrees and no active entry among them", e.Candidates)
}

// ResolveWorkingDir selects the working directory for task execution.
//
// Only worktrees that are visible, local, and directory-rooted qualify.
// With zero qualifying worktrees it returns ("", nil): downstream execution
// uses its own default. With exactly one it returns that root's path. With
// more than one, the worktree owning the active entry disambiguates; if the
// active entry is absent or belongs to none of the candidates, the
// resolution fails with *AmbiguousRootError rather than guessing.
func ResolveWorkingDir(ws *Workspace) (string, error) {
	var candidates []Worktree
	for _, wt := range ws.Worktrees() {
		if wt.Visible && wt.Local && wt.RootIsDir {
			candidates = append(candidates, wt)
		}
	}

	switch len(candidates) {
	case 0:
		return "", nil
	case 1:
		return candidates[0].Path, nil
	}

	if active, ok := ws.ActiveEntry(); ok {
		if owner, ok := ws.WorktreeContaining(active); ok {
			for _, wt := range candidates {
				if wt.ID == owner.ID {
					return wt.Path, nil
				}
			}
		}
	}
	return "", &AmbiguousRootError{Candidates: len(candidates)}
}
