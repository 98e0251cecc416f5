package domain

import "context"

// ActionFunc is the body of a task action.
// Returning an error marks the owning task as failed; it never aborts the whole graph.
type ActionFunc func(ctx context.Context) error

// Action is a single step of a task. Actions run in declaration order.
type Action struct {
	Name string
	Run  ActionFunc
}

// StalenessSignal is an externally supplied fingerprint.
// A task carrying the signal is stale when Value differs from the value recorded
// after the task's last successful run.
type StalenessSignal struct {
	Name  string
	Value func(ctx context.Context) (string, error)
}

// Task represents a unit of work in the build graph.
type Task struct {
	Name     string
	Actions  []Action
	Targets  []string
	FileDeps []string
	TaskDeps []string
	UpToDate []StalenessSignal

	// Checks run before staleness evaluation. A failing check fails the task
	// before any input is read or any action runs.
	Checks []func() error
}

// AlwaysStale reports whether the task declares nothing it can be checked against.
func (t *Task) AlwaysStale() bool {
	return len(t.FileDeps) == 0 && len(t.UpToDate) == 0
}
