// Package config provides settings for the task system.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Settings holds user-configurable task behavior.
type Settings struct {
	// Shell is the shell used for shell tasks.
	Shell string `toml:"shell"`

	// ShellArgs are the shell arguments preceding the command line.
	ShellArgs []string `toml:"shell_args"`

	// TaskFiles are task definition files looked up in each worktree root.
	TaskFiles []string `toml:"task_files"`

	// LuaProviders maps language names to Lua context-provider scripts.
	LuaProviders map[string]string `toml:"lua_providers"`

	// RerunReevaluate re-resolves the context (including the working
	// directory) on rerun instead of reusing the stored context.
	RerunReevaluate bool `toml:"rerun_reevaluate"`

	// MaxConcurrent limits concurrent task executions.
	MaxConcurrent int `toml:"max_concurrent"`
}

// DefaultSettings returns sensible defaults.
func DefaultSettings() Settings {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return Settings{
		Shell:         shell,
		ShellArgs:     []string{"-c"},
		TaskFiles:     []string{"tasks.toml", "Makefile", "package.json", "Taskfile.yml"},
		MaxConcurrent: 4,
	}
}

// Load reads settings from a TOML file, filling unset fields with defaults.
func Load(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, err
	}
	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parse %s: %w", path, err)
	}

	if settings.Shell == "" {
		settings.Shell = DefaultSettings().Shell
	}
	if settings.MaxConcurrent <= 0 {
		settings.MaxConcurrent = DefaultSettings().MaxConcurrent
	}
	return settings, nil
}
