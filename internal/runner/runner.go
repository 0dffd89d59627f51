// Package runner executes spawn requests produced by the task scheduler.
//
// The scheduling core prepares execution descriptors and emits them as
// SpawnRequests; this package owns the process side: spawning, exit-code
// tracking, cancellation, and concurrency limiting.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	osexec "os/exec"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/taskstorm/internal/task"
)

// ErrClosed is returned when spawning on a closed runner.
var ErrClosed = errors.New("runner is closed")

// State represents the state of an execution.
type State string

const (
	// StatePending indicates the execution is waiting for a slot.
	StatePending State = "pending"
	// StateRunning indicates the process is running.
	StateRunning State = "running"
	// StateSucceeded indicates the process exited with code 0.
	StateSucceeded State = "succeeded"
	// StateFailed indicates the process exited non-zero or failed to start.
	StateFailed State = "failed"
	// StateCanceled indicates the execution was canceled.
	StateCanceled State = "canceled"
)

// Config configures the runner.
type Config struct {
	// Shell is the shell used for UseShell specs.
	Shell string

	// ShellArgs are the shell arguments preceding the command line.
	ShellArgs []string

	// Env are environment variables added to every execution.
	Env map[string]string

	// MaxConcurrent limits concurrent executions.
	MaxConcurrent int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return Config{
		Shell:         shell,
		ShellArgs:     []string{"-c"},
		MaxConcurrent: 4,
	}
}

// Execution is a running or completed spawn request.
type Execution struct {
	// ID is the spawn request ID.
	ID string

	// TaskName is the name of the task that produced the spec.
	TaskName string

	// Spec is the execution descriptor.
	Spec task.ExecSpec

	mu        sync.RWMutex
	state     State
	exitCode  int
	err       error
	startTime time.Time
	endTime   time.Time
	output    bytes.Buffer

	cancel context.CancelFunc
	done   chan struct{}
}

// State returns the current execution state.
func (e *Execution) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// ExitCode returns the process exit code (-1 until the process exits).
func (e *Execution) ExitCode() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.exitCode
}

// Err returns the execution error, if any.
func (e *Execution) Err() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.err
}

// Output returns the combined stdout/stderr captured so far.
func (e *Execution) Output() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.output.String()
}

// Duration returns how long the execution ran.
func (e *Execution) Duration() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.endTime.IsZero() {
		return time.Since(e.startTime)
	}
	return e.endTime.Sub(e.startTime)
}

// Cancel stops the execution.
func (e *Execution) Cancel() {
	e.mu.Lock()
	cancel := e.cancel
	if e.state == StatePending || e.state == StateRunning {
		e.state = StateCanceled
	}
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the execution completes or ctx is done.
func (e *Execution) Wait(ctx context.Context) error {
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Runner consumes spawn requests and runs them as child processes.
type Runner struct {
	config Config
	logger *zap.Logger

	mu         sync.RWMutex
	executions map[string]*Execution
	closed     bool

	sem chan struct{}
	wg  sync.WaitGroup
}

// New creates a runner.
func New(config Config, logger *zap.Logger) *Runner {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 4
	}
	if config.Shell == "" {
		config.Shell = DefaultConfig().Shell
		config.ShellArgs = []string{"-c"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		config:     config,
		logger:     logger,
		executions: make(map[string]*Execution),
		sem:        make(chan struct{}, config.MaxConcurrent),
	}
}

// Notifier returns the callback to wire into the scheduler. Each spawn
// request starts executing in the background.
func (r *Runner) Notifier() task.Notifier {
	return func(req task.SpawnRequest) {
		if _, err := r.Spawn(context.Background(), req); err != nil {
			r.logger.Warn("spawn rejected",
				zap.String("task", req.TaskName),
				zap.Error(err),
			)
		}
	}
}

// Spawn starts executing a spawn request and returns its execution handle.
func (r *Runner) Spawn(ctx context.Context, req task.SpawnRequest) (*Execution, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}

	execCtx, cancel := context.WithCancel(ctx)
	exec := &Execution{
		ID:       req.ID,
		TaskName: req.TaskName,
		Spec:     req.Spec,
		state:    StatePending,
		exitCode: -1,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	r.executions[exec.ID] = exec
	r.wg.Add(1)
	r.mu.Unlock()

	go r.run(execCtx, exec)
	return exec, nil
}

// Execution returns an execution by ID.
func (r *Runner) Execution(id string) (*Execution, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exec, ok := r.executions[id]
	return exec, ok
}

// Close cancels all executions and waits for them to finish.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	executions := make([]*Execution, 0, len(r.executions))
	for _, exec := range r.executions {
		executions = append(executions, exec)
	}
	r.mu.Unlock()

	for _, exec := range executions {
		exec.Cancel()
	}
	r.wg.Wait()
}

// run executes a single spawn request.
func (r *Runner) run(ctx context.Context, exec *Execution) {
	defer r.wg.Done()
	defer close(exec.done)
	defer exec.cancel()

	select {
	case r.sem <- struct{}{}:
		defer func() { <-r.sem }()
	case <-ctx.Done():
		r.finish(exec, StateCanceled, -1, ctx.Err())
		return
	}

	if exec.State() == StateCanceled {
		r.finish(exec, StateCanceled, -1, nil)
		return
	}

	cmd := r.buildCommand(ctx, exec.Spec)
	cmd.Stdout = &lockedWriter{exec: exec}
	cmd.Stderr = &lockedWriter{exec: exec}

	exec.mu.Lock()
	exec.state = StateRunning
	exec.startTime = time.Now()
	exec.mu.Unlock()

	r.logger.Info("execution started",
		zap.String("id", exec.ID),
		zap.String("task", exec.TaskName),
		zap.String("command", exec.Spec.Command),
	)

	err := cmd.Run()
	switch {
	case ctx.Err() != nil:
		r.finish(exec, StateCanceled, -1, ctx.Err())
	case err == nil:
		r.finish(exec, StateSucceeded, 0, nil)
	default:
		exitCode := -1
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		r.finish(exec, StateFailed, exitCode, err)
	}
}

// finish records the terminal state of an execution.
func (r *Runner) finish(exec *Execution, state State, exitCode int, err error) {
	exec.mu.Lock()
	exec.state = state
	exec.exitCode = exitCode
	exec.err = err
	exec.endTime = time.Now()
	exec.mu.Unlock()

	r.logger.Info("execution finished",
		zap.String("id", exec.ID),
		zap.String("task", exec.TaskName),
		zap.String("state", string(state)),
		zap.Int("exit_code", exitCode),
	)
}

// buildCommand constructs the os/exec command for a spec.
func (r *Runner) buildCommand(ctx context.Context, spec task.ExecSpec) *osexec.Cmd {
	var cmd *osexec.Cmd
	if spec.UseShell {
		args := append(append([]string{}, r.config.ShellArgs...), spec.Command)
		cmd = osexec.CommandContext(ctx, r.config.Shell, args...)
	} else {
		cmd = osexec.CommandContext(ctx, spec.Command, spec.Args...)
	}

	cmd.Dir = spec.Cwd
	cmd.Env = os.Environ()
	for name, value := range r.config.Env {
		cmd.Env = append(cmd.Env, name+"="+value)
	}
	for name, value := range spec.Env {
		cmd.Env = append(cmd.Env, name+"="+value)
	}
	return cmd
}

// lockedWriter appends process output under the execution lock.
type lockedWriter struct {
	exec *Execution
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.exec.mu.Lock()
	defer w.exec.mu.Unlock()
	return w.exec.output.Write(p)
}
