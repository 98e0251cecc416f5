package scheduler

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/zerr"
)

// Staleness reasons reported when a task runs.
const (
	reasonNoInputs    = "no declared inputs"
	reasonNeverBuilt  = "no previous successful run"
	reasonDepRan      = "dependency was rebuilt"
	reasonTarget      = "target missing"
	reasonFileChanged = "file dependency changed"
	reasonSignal      = "up-to-date signal changed"
)

type evaluation struct {
	stale  bool
	reason string
	info   domain.BuildInfo
}

// evaluate computes the task's current fingerprints and compares them with
// the record of its last successful run.
func (s *Scheduler) evaluate(ctx context.Context, task *domain.Task, depRan bool) (evaluation, error) {
	prev, err := s.store.Get(task.Name)
	if err != nil {
		s.logger.Warn("ignoring unreadable build info for " + task.Name + ": " + err.Error())
		prev = nil
	}

	info := domain.BuildInfo{
		TaskName: task.Name,
		FileDeps: make(map[string]domain.FileFingerprint, len(task.FileDeps)),
		Signals:  make(map[string]string, len(task.UpToDate)),
	}

	for _, path := range task.FileDeps {
		var prevFP *domain.FileFingerprint
		if prev != nil {
			if fp, ok := prev.FileDeps[path]; ok {
				prevFP = &fp
			}
		}
		fp, err := s.hasher.Fingerprint(path, prevFP)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return evaluation{}, zerr.With(domain.Annotate(domain.ErrInputNotFound, "path", path), "task", task.Name)
			}
			return evaluation{}, zerr.With(err, "task", task.Name)
		}
		info.FileDeps[path] = fp
	}

	for _, sig := range task.UpToDate {
		v, err := sig.Value(ctx)
		if err != nil {
			err = zerr.With(zerr.Wrap(err, domain.ErrSignalEvaluationFailed.Error()), "signal", sig.Name)
			return evaluation{}, zerr.With(err, "task", task.Name)
		}
		info.Signals[sig.Name] = v
	}

	reason := staleReason(task, prev, &info, depRan)
	return evaluation{stale: reason != "", reason: reason, info: info}, nil
}

// staleReason returns why the task must run, or "" when it is up to date.
func staleReason(task *domain.Task, prev, current *domain.BuildInfo, depRan bool) string {
	switch {
	case task.AlwaysStale():
		return reasonNoInputs
	case prev == nil:
		return reasonNeverBuilt
	case depRan:
		return reasonDepRan
	}

	for _, target := range task.Targets {
		if _, err := os.Stat(target); err != nil {
			return reasonTarget
		}
	}

	if len(prev.FileDeps) != len(current.FileDeps) {
		return reasonFileChanged
	}
	for path, fp := range current.FileDeps {
		old, ok := prev.FileDeps[path]
		if !ok || old.Hash != fp.Hash {
			return reasonFileChanged
		}
	}

	if len(prev.Signals) != len(current.Signals) {
		return reasonSignal
	}
	for name, v := range current.Signals {
		old, ok := prev.Signals[name]
		if !ok || old != v {
			return reasonSignal
		}
	}
	return ""
}
