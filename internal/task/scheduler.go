package task

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SpawnRequest carries a prepared execution spec to the external executor.
// The executor owns process lifecycle, terminal allocation, and exit-code
// reporting; this package never runs processes itself.
type SpawnRequest struct {
	// ID uniquely identifies this spawn request.
	ID string

	// TaskName is the name of the task being spawned.
	TaskName string

	// Spec is the fully-resolved execution descriptor.
	Spec ExecSpec
}

// Notifier receives spawn requests. It replaces a host-wide event bus with
// an explicit callback consumed synchronously by the executor wiring.
type Notifier func(SpawnRequest)

// ContextFunc produces a fresh context for rerun-with-reevaluation.
type ContextFunc func() Context

// Scheduler dispatches tasks: it asks a task to prepare an execution spec,
// records scheduling history, and emits a SpawnRequest for the executor.
type Scheduler struct {
	inventory *Inventory
	notify    Notifier
	resolve   ContextFunc
	logger    *zap.Logger
}

// NewScheduler creates a scheduler. notify must not be nil.
func NewScheduler(inventory *Inventory, notify Notifier) *Scheduler {
	return &Scheduler{
		inventory: inventory,
		notify:    notify,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the structured logger.
func (s *Scheduler) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetContextFunc sets the resolver used by rerun-with-reevaluation.
func (s *Scheduler) SetContextFunc(resolve ContextFunc) {
	s.resolve = resolve
}

// Schedule prepares the task for the context and, on success, records
// history (unless omitHistory is set) before emitting exactly one spawn
// request. History is written first so observers reacting to the spawn see
// consistent history state. A task that cannot be prepared is a no-op:
// no history update, no spawn, and Schedule reports false; surfacing that
// nothing happened is the caller's responsibility.
func (s *Scheduler) Schedule(t Task, ctx Context, omitHistory bool) bool {
	spec, ok := t.Prepare(ctx)
	if !ok {
		s.logger.Debug("task not preparable for context", zap.String("task", t.Name()))
		return false
	}

	if !omitHistory {
		s.inventory.RecordScheduled(t, ctx)
	}

	req := SpawnRequest{
		ID:       uuid.NewString(),
		TaskName: t.Name(),
		Spec:     *spec,
	}
	s.logger.Info("spawn requested",
		zap.String("task", t.Name()),
		zap.String("id", req.ID),
		zap.String("cwd", spec.Cwd),
	)
	s.notify(req)
	return true
}

// Rerun schedules the last recorded task again. With reevaluate set, a
// fresh context (including a recomputed working directory) replaces the
// stored one; otherwise the stored context is reused byte-for-byte.
// Rerun always refreshes the last-scheduled slot.
func (s *Scheduler) Rerun(reevaluate bool) bool {
	t, ctx, ok := s.inventory.LastScheduled()
	if !ok {
		return false
	}
	if reevaluate && s.resolve != nil {
		ctx = s.resolve()
	}
	return s.Schedule(t, ctx, false)
}
