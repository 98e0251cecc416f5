// Package session turns workload configs into build graph tasks and builds them.
package session

import (
	"context"
	"errors"
	"os"
	"slices"
	"sync"

	"go.trai.ch/marshal/internal/adapters/fs" //nolint:depguard // Wired in engine layer
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/marshal/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// DefaultDistro boots images that name no distro.
const DefaultDistro = "bare"

// Services are the collaborators task bodies are built from.
type Services struct {
	Scheduler *scheduler.Scheduler
	Artifacts ports.ArtifactBuilder
	Images    ports.ImageMutator
	Distros   ports.DistroRegistry
	Launcher  ports.Launcher
	Status    ports.StalenessProvider
	Runner    ports.CommandRunner
	Walker    *fs.Walker
	Logger    ports.Logger
	Platform  domain.Platform
}

// Options selects what BuildWorkload builds.
type Options struct {
	// Bin and Img restrict the build to binaries or images. Both false builds both.
	Bin bool
	Img bool
	// Parallelism bounds concurrently running tasks. Zero means one per CPU.
	Parallelism int
}

func (o Options) kinds() (bin, img bool) {
	if !o.Bin && !o.Img {
		return true, true
	}
	return o.Bin, o.Img
}

// Session owns the build graph of one invocation.
type Session struct {
	svc   Services
	graph *domain.Graph

	// producers holds image paths some registered or pending task builds.
	producers map[string]bool

	once    sync.Once
	onceErr error
}

// New creates a Session with an empty graph.
func New(svc Services) *Session {
	return &Session{
		svc:       svc,
		graph:     domain.NewGraph(),
		producers: make(map[string]bool),
	}
}

// Graph returns the session's build graph.
func (s *Session) Graph() *domain.Graph {
	return s.graph
}

// RegisterAll registers the shared support build, the base image of every
// distro that has one, and every config with its nested jobs.
func (s *Session) RegisterAll(configs map[string]*domain.WorkloadConfig) error {
	names := make([]string, 0, len(configs))
	for name, cfg := range configs {
		names = append(names, name)
		s.markProducers(cfg)
	}
	slices.Sort(names)

	s.registerSupport()
	for _, d := range s.svc.Distros.All() {
		s.registerDistro(d)
	}

	for _, name := range names {
		cfg := configs[name]
		if err := s.RegisterConfig(cfg); err != nil {
			return err
		}
		for _, job := range cfg.JobNames() {
			if err := s.RegisterConfig(cfg.Jobs[job]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Build runs the closure of targets and returns the per-task report. The
// error is non-nil when any task failed or was blocked.
func (s *Session) Build(ctx context.Context, targets []string, parallelism int) (*domain.Report, error) {
	report, err := s.svc.Scheduler.Run(ctx, s.graph, targets, parallelism)
	if err != nil {
		return report, err
	}
	if report.OK() {
		return report, nil
	}

	err = errors.Join(domain.ErrBuildExecutionFailed, report.Err())
	for _, name := range report.Blocked() {
		res, _ := report.Result(name)
		err = errors.Join(err, zerr.With(domain.Annotate(domain.ErrTaskBlocked, "task", name), "blocked_by", res.BlockedBy))
	}
	return report, err
}

// BuildWorkload builds the outputs of the named workload and its jobs. The
// graph is built from configs on the first call only.
func (s *Session) BuildWorkload(
	ctx context.Context,
	name string,
	configs map[string]*domain.WorkloadConfig,
	opts Options,
) (*domain.Report, error) {
	s.once.Do(func() {
		s.onceErr = s.RegisterAll(configs)
	})
	if s.onceErr != nil {
		return nil, s.onceErr
	}

	cfg, ok := configs[name]
	if !ok {
		return nil, domain.Annotate(domain.ErrWorkloadNotFound, "workload", name)
	}
	return s.Build(ctx, Targets(cfg, opts), opts.Parallelism)
}

// Inputs returns the sorted source files the closure of targets reads. Files
// produced by a task in the graph are left out.
func (s *Session) Inputs(targets []string) ([]string, error) {
	closure, err := s.graph.Closure(targets)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for name := range closure {
		task, _ := s.graph.GetTask(name)
		for _, dep := range task.FileDeps {
			if _, produced := s.graph.GetTask(dep); !produced {
				seen[dep] = true
			}
		}
	}

	inputs := make([]string, 0, len(seen))
	for p := range seen {
		inputs = append(inputs, p)
	}
	slices.Sort(inputs)
	return inputs, nil
}

// Targets returns the task names BuildWorkload requests for cfg.
func Targets(cfg *domain.WorkloadConfig, opts Options) []string {
	buildBin, buildImg := opts.kinds()

	var bins, imgs []string
	if buildBin && cfg.Bin != "" {
		if cfg.Nodisk {
			bins = append(bins, cfg.NodiskBin())
		} else {
			bins = append(bins, cfg.Bin)
		}
	}
	if buildImg && cfg.Img != "" {
		imgs = append(imgs, cfg.Img)
	}

	for _, jobName := range cfg.JobNames() {
		job := cfg.Jobs[jobName]
		if job.HostInit != "" {
			bins = append(bins, job.HostInit)
		}
		if buildBin && job.Bin != "" {
			bins = append(bins, job.Bin)
			if job.Nodisk {
				bins = append(bins, job.NodiskBin())
			}
		}
		if buildImg && job.Img != "" {
			imgs = append(imgs, job.Img)
		}
	}

	targets := make([]string, 0, len(bins)+len(imgs))
	seen := make(map[string]bool)
	for _, t := range append(bins, imgs...) {
		if !seen[t] {
			seen[t] = true
			targets = append(targets, t)
		}
	}
	return targets
}

func (s *Session) markProducers(cfg *domain.WorkloadConfig) {
	if cfg.Img != "" {
		s.producers[cfg.Img] = true
	}
	for _, job := range cfg.Jobs {
		s.markProducers(job)
	}
}

// produced reports whether path is the output of a task in the graph.
func (s *Session) produced(path string) bool {
	if s.producers[path] {
		return true
	}
	_, ok := s.graph.GetTask(path)
	return ok
}

func scriptExists(path string) func() error {
	return func() error {
		if _, err := os.Stat(path); err != nil {
			return domain.Annotate(domain.ErrMissingScript, "path", path)
		}
		return nil
	}
}
