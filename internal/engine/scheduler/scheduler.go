// Package scheduler implements the task execution scheduler.
package scheduler

import (
	"context"
	"runtime"
	"time"

	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/zerr"
)

// Scheduler executes the stale part of a task graph in dependency order.
type Scheduler struct {
	hasher    ports.Hasher
	store     ports.BuildInfoStore
	telemetry ports.Telemetry
	logger    ports.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(
	hasher ports.Hasher,
	store ports.BuildInfoStore,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		hasher:    hasher,
		store:     store,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Run executes targets and their task dependencies with at most parallelism
// tasks in flight. A parallelism of zero or less selects runtime.NumCPU().
//
// Task failures do not abort the run: they are recorded in the report, their
// dependents are marked blocked and independent tasks continue. The returned
// error covers graph problems and cancellation only.
func (s *Scheduler) Run(
	ctx context.Context,
	g *domain.Graph,
	targets []string,
	parallelism int,
) (*domain.Report, error) {
	if len(targets) == 0 {
		return nil, domain.ErrNoTargetsSpecified
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	closure, err := g.Closure(targets)
	if err != nil {
		return nil, err
	}
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	state := s.newRunState(ctx, g, closure, targets, parallelism)

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			break
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	return state.report, state.ctx.Err()
}

type schedulerRunState struct {
	graph       *domain.Graph
	closure     map[string]bool
	inDegree    map[string]int
	ran         map[string]bool
	ready       []string
	active      int
	resultsCh   chan domain.TaskResult
	report      *domain.Report
	ctx         context.Context
	parallelism int
	s           *Scheduler
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	g *domain.Graph,
	closure map[string]bool,
	targets []string,
	parallelism int,
) *schedulerRunState {
	inDegree := make(map[string]int, len(closure))
	var ready []string

	// Walk yields tasks in a deterministic topological order, which keeps the
	// initial ready queue stable across runs.
	for task := range g.Walk() {
		if !closure[task.Name] {
			continue
		}
		inDegree[task.Name] = len(task.TaskDeps)
		if len(task.TaskDeps) == 0 {
			ready = append(ready, task.Name)
		}
	}

	return &schedulerRunState{
		graph:       g,
		closure:     closure,
		inDegree:    inDegree,
		ran:         make(map[string]bool),
		ready:       ready,
		resultsCh:   make(chan domain.TaskResult, parallelism),
		report:      domain.NewReport(targets),
		ctx:         ctx,
		parallelism: parallelism,
		s:           s,
	}
}

func (state *schedulerRunState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *schedulerRunState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		name := state.ready[0]
		state.ready = state.ready[1:]

		task, _ := state.graph.GetTask(name)
		depRan := false
		for _, dep := range task.TaskDeps {
			if state.ran[dep] {
				depRan = true
				break
			}
		}

		state.active++
		go func(t *domain.Task, depRan bool) {
			state.resultsCh <- state.s.executeTask(state.ctx, t, depRan)
		}(task, depRan)
	}
}

func (state *schedulerRunState) handleResult(res domain.TaskResult) {
	state.active--
	state.report.Record(res)

	if res.Outcome == domain.OutcomeFailed {
		state.s.logger.Error(res.Err)
		state.block(res.Task, res.Task)
		return
	}

	if res.Ran() {
		state.ran[res.Task] = true
	}
	for _, dep := range state.graph.Dependents(res.Task) {
		if !state.closure[dep] {
			continue
		}
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}

// block marks every dependent of name inside the closure as blocked by root.
// Blocked tasks never reach in-degree zero, so they are never scheduled.
func (state *schedulerRunState) block(name, root string) {
	for _, dep := range state.graph.Dependents(name) {
		if !state.closure[dep] {
			continue
		}
		if _, recorded := state.report.Result(dep); recorded {
			continue
		}
		state.report.Record(domain.TaskResult{
			Task:      dep,
			Outcome:   domain.OutcomeBlocked,
			BlockedBy: root,
			Err:       zerr.With(domain.Annotate(domain.ErrTaskBlocked, "task", dep), "dependency", root),
		})
		state.block(dep, root)
	}
}

// executeTask evaluates staleness and runs the task's actions when needed.
func (s *Scheduler) executeTask(ctx context.Context, task *domain.Task, depRan bool) domain.TaskResult {
	start := time.Now()
	ctx, vertex := s.telemetry.Record(ctx, task.Name)

	res := s.runTask(ctx, task, depRan)
	res.Duration = time.Since(start)

	if res.Outcome == domain.OutcomeUpToDate {
		vertex.Cached()
	}
	vertex.Complete(res.Err)
	return res
}

func (s *Scheduler) runTask(ctx context.Context, task *domain.Task, depRan bool) domain.TaskResult {
	for _, check := range task.Checks {
		if err := check(); err != nil {
			return failed(task.Name, zerr.With(err, "task", task.Name))
		}
	}

	eval, err := s.evaluate(ctx, task, depRan)
	if err != nil {
		return failed(task.Name, err)
	}
	if !eval.stale {
		return domain.TaskResult{Task: task.Name, Outcome: domain.OutcomeUpToDate}
	}

	s.logger.Info(task.Name + ": " + eval.reason)

	for _, action := range task.Actions {
		if action.Run == nil {
			continue
		}
		if err := action.Run(ctx); err != nil {
			s.invalidate(task.Name)
			err = zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", task.Name)
			return failed(task.Name, zerr.With(err, "action", action.Name))
		}
	}

	eval.info.Timestamp = time.Now()
	if err := s.store.Put(eval.info); err != nil {
		return failed(task.Name, zerr.With(err, "task", task.Name))
	}
	return domain.TaskResult{Task: task.Name, Outcome: domain.OutcomeSucceeded}
}

// invalidate replaces the last success record with an empty one so that a
// task whose actions failed part-way is rerun even if its inputs are unchanged.
func (s *Scheduler) invalidate(name string) {
	if err := s.store.Put(domain.BuildInfo{TaskName: name, Timestamp: time.Now()}); err != nil {
		s.logger.Warn("failed to invalidate build info for " + name + ": " + err.Error())
	}
}

func failed(name string, err error) domain.TaskResult {
	return domain.TaskResult{Task: name, Outcome: domain.OutcomeFailed, Err: err}
}
