package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/taskstorm/internal/task"
)

func spawnAndWait(t *testing.T, r *Runner, req task.SpawnRequest) *Execution {
	t.Helper()
	exec, err := r.Spawn(context.Background(), req)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := exec.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	return exec
}

func TestRunnerSuccess(t *testing.T) {
	r := New(DefaultConfig(), nil)
	defer r.Close()

	exec := spawnAndWait(t, r, task.SpawnRequest{
		ID:       "exec-1",
		TaskName: "say hello",
		Spec:     task.ExecSpec{Command: "echo hello", UseShell: true},
	})

	if exec.State() != StateSucceeded {
		t.Errorf("State = %q, want succeeded", exec.State())
	}
	if exec.ExitCode() != 0 {
		t.Errorf("ExitCode = %d", exec.ExitCode())
	}
	if got := strings.TrimSpace(exec.Output()); got != "hello" {
		t.Errorf("Output = %q", got)
	}
	if exec.Err() != nil {
		t.Errorf("Err = %v", exec.Err())
	}
}

func TestRunnerDirectExec(t *testing.T) {
	r := New(DefaultConfig(), nil)
	defer r.Close()

	exec := spawnAndWait(t, r, task.SpawnRequest{
		ID:       "exec-direct",
		TaskName: "echo args",
		Spec:     task.ExecSpec{Command: "echo", Args: []string{"a", "b"}},
	})

	if exec.State() != StateSucceeded {
		t.Fatalf("State = %q", exec.State())
	}
	if got := strings.TrimSpace(exec.Output()); got != "a b" {
		t.Errorf("Output = %q", got)
	}
}

func TestRunnerNonZeroExit(t *testing.T) {
	r := New(DefaultConfig(), nil)
	defer r.Close()

	exec := spawnAndWait(t, r, task.SpawnRequest{
		ID:       "exec-fail",
		TaskName: "fail",
		Spec:     task.ExecSpec{Command: "exit 3", UseShell: true},
	})

	if exec.State() != StateFailed {
		t.Errorf("State = %q, want failed", exec.State())
	}
	if exec.ExitCode() != 3 {
		t.Errorf("ExitCode = %d, want 3", exec.ExitCode())
	}
	if exec.Err() == nil {
		t.Error("Err = nil, want exit error")
	}
}

func TestRunnerSpecEnv(t *testing.T) {
	r := New(Config{Env: map[string]string{"RUNNER_VAR": "from-runner"}}, nil)
	defer r.Close()

	exec := spawnAndWait(t, r, task.SpawnRequest{
		ID:       "exec-env",
		TaskName: "env check",
		Spec: task.ExecSpec{
			Command:  "echo $RUNNER_VAR:$SYMBOL",
			UseShell: true,
			Env:      map[string]string{"SYMBOL": "parse_header"},
		},
	})

	if exec.State() != StateSucceeded {
		t.Fatalf("State = %q, output %q", exec.State(), exec.Output())
	}
	if got := strings.TrimSpace(exec.Output()); got != "from-runner:parse_header" {
		t.Errorf("Output = %q", got)
	}
}

func TestRunnerCancel(t *testing.T) {
	r := New(DefaultConfig(), nil)
	defer r.Close()

	exec, err := r.Spawn(context.Background(), task.SpawnRequest{
		ID:       "exec-cancel",
		TaskName: "sleep",
		Spec:     task.ExecSpec{Command: "sleep 30", UseShell: true},
	})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	exec.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := exec.Wait(ctx); err != nil {
		t.Fatalf("Wait after cancel: %v", err)
	}
	if exec.State() != StateCanceled {
		t.Errorf("State = %q, want canceled", exec.State())
	}
}

func TestRunnerLookup(t *testing.T) {
	r := New(DefaultConfig(), nil)
	defer r.Close()

	exec := spawnAndWait(t, r, task.SpawnRequest{
		ID:       "exec-lookup",
		TaskName: "noop",
		Spec:     task.ExecSpec{Command: "true"},
	})

	got, ok := r.Execution("exec-lookup")
	if !ok || got != exec {
		t.Errorf("Execution = %v, %v", got, ok)
	}
	if _, ok := r.Execution("missing"); ok {
		t.Error("Execution found a missing ID")
	}
}

func TestRunnerClosed(t *testing.T) {
	r := New(DefaultConfig(), nil)
	r.Close()

	_, err := r.Spawn(context.Background(), task.SpawnRequest{
		ID:   "late",
		Spec: task.ExecSpec{Command: "true"},
	})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}
