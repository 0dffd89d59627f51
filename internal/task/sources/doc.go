// Package sources provides file-backed task sources for various build
// systems: tasks.toml definitions, package.json scripts, Makefile targets,
// and Taskfile.yml tasks.
//
// Each source parses one definition file into static tasks scoped to the
// worktree the file lives in, caches the result, and can be reloaded when
// the file changes (see Watcher). Task definition parsing lives here, at
// the edge; the scheduling core only ever sees constructed Task values.
package sources
