package domain

import (
	"errors"
	"slices"
	"time"
)

// Outcome is the final state of a task in a build invocation.
type Outcome string

const (
	// OutcomeSucceeded indicates the task was stale and its actions completed.
	OutcomeSucceeded Outcome = "Succeeded"
	// OutcomeUpToDate indicates the task was skipped because nothing it depends on changed.
	OutcomeUpToDate Outcome = "UpToDate"
	// OutcomeFailed indicates an action of the task failed.
	OutcomeFailed Outcome = "Failed"
	// OutcomeBlocked indicates the task was not attempted because a dependency failed.
	OutcomeBlocked Outcome = "Blocked"
)

// TaskResult is the result of a single task.
type TaskResult struct {
	Task      string
	Outcome   Outcome
	Err       error
	BlockedBy string
	Duration  time.Duration
}

// Ran reports whether the task's actions were executed.
func (r TaskResult) Ran() bool {
	return r.Outcome == OutcomeSucceeded || r.Outcome == OutcomeFailed
}

// Report aggregates the results of a build invocation.
type Report struct {
	Targets []string
	Results map[string]TaskResult
}

// NewReport creates an empty report for the given targets.
func NewReport(targets []string) *Report {
	return &Report{
		Targets: slices.Clone(targets),
		Results: make(map[string]TaskResult),
	}
}

// Record stores a task result.
func (r *Report) Record(res TaskResult) {
	r.Results[res.Task] = res
}

// Result returns the result recorded for a task.
func (r *Report) Result(task string) (TaskResult, bool) {
	res, ok := r.Results[task]
	return res, ok
}

// Failed returns the names of failed tasks in sorted order.
func (r *Report) Failed() []string {
	return r.withOutcome(OutcomeFailed)
}

// Blocked returns the names of blocked tasks in sorted order.
func (r *Report) Blocked() []string {
	return r.withOutcome(OutcomeBlocked)
}

// Executed returns the names of tasks whose actions ran, in sorted order.
func (r *Report) Executed() []string {
	var names []string
	for name, res := range r.Results {
		if res.Ran() {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// OK reports whether every task succeeded or was up to date.
func (r *Report) OK() bool {
	return len(r.Failed()) == 0 && len(r.Blocked()) == 0
}

// Partial reports whether some but not all requested targets completed.
func (r *Report) Partial() bool {
	done := 0
	for _, t := range r.Targets {
		res, ok := r.Results[t]
		if ok && (res.Outcome == OutcomeSucceeded || res.Outcome == OutcomeUpToDate) {
			done++
		}
	}
	return done > 0 && done < len(r.Targets)
}

// Err joins the causes of every failed task, or returns nil.
func (r *Report) Err() error {
	var errs error
	for _, name := range r.Failed() {
		errs = errors.Join(errs, r.Results[name].Err)
	}
	return errs
}

func (r *Report) withOutcome(o Outcome) []string {
	var names []string
	for name, res := range r.Results {
		if res.Outcome == o {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
