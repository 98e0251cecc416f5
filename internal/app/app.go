// Package app implements the application layer for marshal.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/marshal/internal/adapters/watcher" //nolint:depguard // Debouncing is local to the app layer
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/marshal/internal/engine/session"
	"go.trai.ch/marshal/internal/tui"
	"go.trai.ch/zerr"
)

// DefaultWorkloadsDir is the descriptor directory used when none is given.
const DefaultWorkloadsDir = "workloads"

// App represents the main application logic.
type App struct {
	loader   ports.WorkloadLoader
	session  *session.Session
	launcher ports.Launcher
	watcher  ports.Watcher
	logger   ports.Logger
	platform domain.Platform
	out      io.Writer

	progress    ProgressFeed
	programOpts []tea.ProgramOption
}

// ProgressFeed streams task progress to the interactive progress view.
type ProgressFeed interface {
	tui.TapeSource
	Attach()
	Detach()
}

// New creates a new App instance.
func New(
	loader ports.WorkloadLoader,
	sess *session.Session,
	launcher ports.Launcher,
	watcher ports.Watcher,
	log ports.Logger,
	platform domain.Platform,
) *App {
	return &App{
		loader:   loader,
		session:  sess,
		launcher: launcher,
		watcher:  watcher,
		logger:   log,
		platform: platform,
		out:      os.Stderr,
	}
}

// WithOutput redirects the build summary. Used for testing.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithProgress enables the interactive progress view fed by feed.
func (a *App) WithProgress(feed ProgressFeed, opts ...tea.ProgramOption) *App {
	a.progress = feed
	a.programOpts = opts
	return a
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	WorkloadsDir string
	BinOnly      bool
	ImgOnly      bool
	Parallelism  int
	// Progress shows the interactive progress view while building.
	Progress bool
}

// Build builds the named workloads in order. Every workload is attempted even
// when an earlier one failed.
func (a *App) Build(ctx context.Context, names []string, opts BuildOptions) error {
	if len(names) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	configs, err := a.load(opts.WorkloadsDir)
	if err != nil {
		return err
	}
	if opts.Progress && a.progress != nil {
		return a.buildWithProgress(ctx, configs, names, opts)
	}
	return a.buildAll(ctx, a.out, configs, names, opts)
}

// buildWithProgress runs the build under the progress view and prints the
// summary once the view has exited.
func (a *App) buildWithProgress(ctx context.Context, configs map[string]*domain.WorkloadConfig, names []string, opts BuildOptions) error {
	a.progress.Attach()

	programOpts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(a.out)}, a.programOpts...)
	program := tea.NewProgram(tui.NewModel(a.progress), programOpts...)

	uiDone := make(chan error, 1)
	go func() {
		_, err := program.Run()
		uiDone <- err
	}()

	var summary bytes.Buffer
	err := a.buildAll(ctx, &summary, configs, names, opts)
	a.progress.Detach()

	if uiErr := <-uiDone; uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled) {
		a.logger.Warn("progress view failed: " + uiErr.Error())
	}
	_, _ = io.Copy(a.out, &summary)
	return err
}

// Watch builds the named workloads and rebuilds them whenever one of their
// source files changes, until ctx is done. Build failures are logged and do
// not stop watching. Descriptors are read once.
func (a *App) Watch(ctx context.Context, names []string, opts BuildOptions) error {
	if len(names) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	configs, err := a.load(opts.WorkloadsDir)
	if err != nil {
		return err
	}
	if err := a.buildAll(ctx, a.out, configs, names, opts); err != nil {
		a.logger.Error(err)
	}

	inputs, err := a.inputs(configs, names, opts)
	if err != nil {
		return err
	}

	if err := a.watcher.Start(ctx, inputs); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	watched := make(map[string]bool, len(inputs))
	for _, p := range inputs {
		watched[p] = true
	}

	changes := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		select {
		case changes <- paths:
		case <-ctx.Done():
		}
	})
	go func() {
		for ev := range a.watcher.Events() {
			if watched[ev.Path] {
				debouncer.Add(ev.Path)
			}
		}
	}()

	a.logger.Info(fmt.Sprintf("watching %d input files", len(inputs)))
	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			a.logger.Info(fmt.Sprintf("%d input files changed, rebuilding", len(paths)))
			if err := a.buildAll(ctx, a.out, configs, names, opts); err != nil {
				a.logger.Error(err)
			}
		}
	}
}

func (a *App) buildAll(ctx context.Context, w io.Writer, configs map[string]*domain.WorkloadConfig, names []string, opts BuildOptions) error {
	sessOpts := session.Options{Bin: opts.BinOnly, Img: opts.ImgOnly, Parallelism: opts.Parallelism}

	var errs error
	for _, name := range names {
		report, err := a.session.BuildWorkload(ctx, name, configs, sessOpts)
		if report != nil {
			printReport(w, name, report)
			if report.Partial() {
				a.logger.Warn(fmt.Sprintf("%s built partially: %d failed, %d blocked", name, len(report.Failed()), len(report.Blocked())))
			}
		}
		if err != nil {
			errs = errors.Join(errs, zerr.With(err, "workload", name))
		}
		if ctx.Err() != nil {
			break
		}
	}
	return errs
}

// inputs returns the source files of every named workload that exists.
func (a *App) inputs(configs map[string]*domain.WorkloadConfig, names []string, opts BuildOptions) ([]string, error) {
	sessOpts := session.Options{Bin: opts.BinOnly, Img: opts.ImgOnly}

	var targets []string
	for _, name := range names {
		if cfg, ok := configs[name]; ok {
			targets = append(targets, session.Targets(cfg, sessOpts)...)
		}
	}
	if len(targets) == 0 {
		return nil, domain.ErrNoTargetsSpecified
	}
	return a.session.Inputs(targets)
}

// LaunchOptions configuration for the Launch method.
type LaunchOptions struct {
	WorkloadsDir string
	// Job selects a nested job instead of the workload itself.
	Job string
}

// Launch boots the already built outputs of a workload in the emulator.
func (a *App) Launch(ctx context.Context, name string, opts LaunchOptions) error {
	configs, err := a.load(opts.WorkloadsDir)
	if err != nil {
		return err
	}

	cfg, ok := configs[name]
	if !ok {
		return domain.Annotate(domain.ErrWorkloadNotFound, "workload", name)
	}
	if opts.Job != "" {
		job, ok := cfg.Jobs[opts.Job]
		if !ok {
			return zerr.With(domain.Annotate(domain.ErrWorkloadNotFound, "workload", name), "job", opts.Job)
		}
		cfg = job
	}

	bin := cfg.Bin
	if cfg.Nodisk {
		bin = cfg.NodiskBin()
	}
	if _, err := os.Stat(bin); err != nil {
		return zerr.With(zerr.Wrap(err, "workload binary is not built"), "bin", bin)
	}

	a.logger.Info("launching " + cfg.Name)
	return a.launcher.Boot(ctx, cfg)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Build bool
	Gen   bool
}

// Clean removes persisted build state based on the provided options.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Build {
		remove(filepath.Join(a.platform.Root, domain.DefaultStorePath()), "build info store")
	}
	if options.Gen {
		remove(a.platform.GenDir, "generated files")
	}
	return errs
}

func (a *App) load(dir string) (map[string]*domain.WorkloadConfig, error) {
	if dir == "" {
		dir = filepath.Join(a.platform.Root, DefaultWorkloadsDir)
	}
	configs, err := a.loader.Load(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return configs, nil
}
