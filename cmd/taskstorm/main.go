// Package main is a command-line front end for the taskstorm scheduling
// core: it opens worktrees, registers file-backed task sources, and lists
// or runs tasks with a resolved context.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/dshills/taskstorm/internal/config"
	"github.com/dshills/taskstorm/internal/language"
	"github.com/dshills/taskstorm/internal/runner"
	"github.com/dshills/taskstorm/internal/task"
	"github.com/dshills/taskstorm/internal/task/sources"
	"github.com/dshills/taskstorm/internal/workspace"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", "", "path to a settings TOML file")
		showVersion = flag.Bool("version", false, "print version and exit")
		verbose     = flag.Bool("v", false, "verbose logging")
	)
	var roots multiFlag
	flag.Var(&roots, "C", "worktree root (repeatable, default: current directory)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("taskstorm %s (%s)\n", version, commit)
		return 0
	}

	logger := newLogger(*verbose)
	defer func() { _ = logger.Sync() }()

	settings := config.DefaultSettings()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
			return 1
		}
		settings = loaded
	}

	if len(roots) == 0 {
		roots = []string{"."}
	}
	ws, err := workspace.NewFromPaths(roots...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open workspace: %v\n", err)
		return 1
	}

	watcher, err := sources.NewWatcher(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: start file watcher: %v\n", err)
		return 1
	}
	defer func() { _ = watcher.Close() }()

	inventory := task.NewInventory()
	oneshot := task.NewOneshotSource()
	inventory.AddSource(oneshot)
	registerFileSources(inventory, watcher, ws, settings, logger)

	exec := runner.New(runner.Config{
		Shell:         settings.Shell,
		ShellArgs:     settings.ShellArgs,
		MaxConcurrent: settings.MaxConcurrent,
	}, logger)
	defer exec.Close()

	resolver := task.NewResolver(ws, newLanguageRegistry(settings, logger))
	resolver.SetLogger(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Capture the execution handle on spawn so run/oneshot can wait on it.
	var execution *runner.Execution
	notify := func(req task.SpawnRequest) {
		if e, err := exec.Spawn(ctx, req); err == nil {
			execution = e
		} else {
			logger.Warn("spawn rejected", zap.String("task", req.TaskName), zap.Error(err))
		}
	}
	scheduler := task.NewScheduler(inventory, notify)
	scheduler.SetLogger(logger)

	switch flag.Arg(0) {
	case "", "list":
		return listTasks(inventory)
	case "run":
		name := flag.Arg(1)
		if name == "" {
			fmt.Fprintln(os.Stderr, "Error: run requires a task name")
			return 2
		}
		entry, ok := inventory.TaskByName(name, task.Filter{})
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: no task named %q\n", name)
			return 1
		}
		return runTask(ctx, scheduler, resolver, entry.Task, &execution)
	case "oneshot":
		command := flag.Arg(1)
		if command == "" {
			fmt.Fprintln(os.Stderr, "Error: oneshot requires a command")
			return 2
		}
		return runTask(ctx, scheduler, resolver, oneshot.Spawn(command), &execution)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q (want list, run, or oneshot)\n", flag.Arg(0))
		return 2
	}
}

// registerFileSources adds a source for each configured task file present
// in a worktree root, watching each one for edits.
func registerFileSources(inventory *task.Inventory, watcher *sources.Watcher, ws *workspace.Workspace, settings config.Settings, logger *zap.Logger) {
	for _, wt := range ws.Worktrees() {
		for _, name := range settings.TaskFiles {
			path := filepath.Join(wt.Path, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}

			src, err := newSourceForFile(path, wt.ID, name)
			if err != nil {
				logger.Warn("skipping task file",
					zap.String("path", path),
					zap.Error(err),
				)
				continue
			}
			inventory.AddSource(src)

			if reloadable, ok := src.(sources.Reloadable); ok {
				if err := watcher.Watch(reloadable); err != nil {
					logger.Warn("watch task file",
						zap.String("path", path),
						zap.Error(err),
					)
				}
			}
		}
	}
}

// newLanguageRegistry registers the configured Lua context providers.
func newLanguageRegistry(settings config.Settings, logger *zap.Logger) *language.Registry {
	registry := language.NewRegistry()
	for name, scriptPath := range settings.LuaProviders {
		script, err := os.ReadFile(scriptPath)
		if err != nil {
			logger.Warn("skipping language provider",
				zap.String("language", name),
				zap.String("path", scriptPath),
				zap.Error(err),
			)
			continue
		}
		registry.Register(language.Language{
			Name:     name,
			Provider: language.NewLuaProvider(string(script)),
		})
	}
	return registry
}

// newSourceForFile picks the source implementation by file name.
func newSourceForFile(path string, worktree workspace.WorktreeID, name string) (task.Source, error) {
	switch name {
	case "package.json":
		return sources.NewPackageJSONSource(path, worktree)
	case "Makefile", "makefile", "GNUmakefile":
		return sources.NewMakefileSource(path, worktree)
	case "Taskfile.yml", "Taskfile.yaml":
		return sources.NewTaskfileSource(path, worktree)
	default:
		return sources.NewTOMLSource(path, worktree)
	}
}

// listTasks prints all tasks in listing order.
func listTasks(inventory *task.Inventory) int {
	entries := inventory.ListTasks(task.Filter{}, false)
	if len(entries) == 0 {
		fmt.Println("no tasks found")
		return 0
	}
	for _, entry := range entries {
		fmt.Printf("%-10s %s\n", entry.Kind, entry.Task.Name())
	}
	return 0
}

// runTask schedules a task with a freshly resolved context and waits for
// the execution to finish.
func runTask(ctx context.Context, scheduler *task.Scheduler, resolver *task.Resolver, t task.Task, execution **runner.Execution) int {
	taskCtx, err := resolver.ResolveActive(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if !scheduler.Schedule(t, taskCtx, false) {
		fmt.Fprintf(os.Stderr, "Error: task %q cannot run in this context\n", t.Name())
		return 1
	}
	exec := *execution
	if exec == nil {
		return 1
	}
	if err := exec.Wait(ctx); err != nil {
		return 1
	}

	fmt.Print(exec.Output())
	if exec.State() != runner.StateSucceeded {
		if code := exec.ExitCode(); code > 0 {
			return code
		}
		return 1
	}
	return 0
}

// newLogger builds the CLI logger.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// multiFlag collects repeated string flags.
type multiFlag []string

func (m *multiFlag) String() string {
	return fmt.Sprint([]string(*m))
}

func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}
