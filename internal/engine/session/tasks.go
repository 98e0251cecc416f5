package session

import (
	"context"
	"os"

	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/zerr"
)

// ToolchainSignal is the name of the cross toolchain version signal.
const ToolchainSignal = "toolchain"

// RegisterConfig registers the host-init, bin, nodisk bin and img tasks cfg
// defines. Tasks already in the graph are left as they are.
func (s *Session) RegisterConfig(cfg *domain.WorkloadConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var hostInit []string
	if cfg.HostInit != "" {
		s.graph.AddTask(s.hostInitTask(cfg))
		hostInit = []string{cfg.HostInit}
	}

	baseImg, err := s.baseImage(cfg)
	if err != nil {
		return err
	}

	if cfg.Bin != "" {
		s.graph.AddTask(s.binTask(cfg, hostInit, baseImg, false))
		if cfg.Nodisk {
			s.graph.AddTask(s.binTask(cfg, hostInit, baseImg, true))
		}
	}

	if cfg.Img != "" {
		task, err := s.imgTask(cfg, hostInit, baseImg)
		if err != nil {
			return err
		}
		s.graph.AddTask(task)
	}
	return nil
}

func (s *Session) registerSupport() {
	s.graph.AddTask(&domain.Task{
		Name:    domain.SupportTaskName,
		Actions: []domain.Action{{Name: "busybox", Run: s.svc.Artifacts.BuildSupport}},
		Targets: []string{s.svc.Platform.BusyboxTarget()},
		UpToDate: []domain.StalenessSignal{
			s.repoSignal(s.svc.Platform.BusyboxDir),
			s.toolchainSignal(),
		},
	})
}

func (s *Session) registerDistro(d ports.DistroBuilder) {
	img := d.BaseImage()
	if img == "" {
		return
	}
	s.producers[img] = true
	s.graph.AddTask(&domain.Task{
		Name:     img,
		Actions:  []domain.Action{{Name: "base-image", Run: d.BuildBaseImage}},
		Targets:  []string{img},
		FileDeps: d.FileDeps(),
		UpToDate: append(d.UpToDate(), s.toolchainSignal()),
	})
}

func (s *Session) hostInitTask(cfg *domain.WorkloadConfig) *domain.Task {
	script := cfg.HostInit
	return &domain.Task{
		Name:   script,
		Checks: []func() error{scriptExists(script)},
		Actions: []domain.Action{{Name: "host-init", Run: func(ctx context.Context) error {
			s.svc.Logger.Info("applying host-init: " + script)
			return s.svc.Runner.Run(ctx, ports.Command{Name: script, Dir: cfg.Workdir})
		}}},
	}
}

func (s *Session) binTask(cfg *domain.WorkloadConfig, hostInit []string, baseImg string, nodisk bool) *domain.Task {
	var fileDeps []string
	taskDeps := append([]string(nil), hostInit...)
	if cfg.BuildsKernel() {
		fileDeps = append(fileDeps, cfg.LinuxConfig)
		taskDeps = append(taskDeps, domain.SupportTaskName)
	}
	// A child binary may embed its parent's root filesystem.
	if baseImg != "" && s.produced(baseImg) {
		taskDeps = append(taskDeps, baseImg)
	}

	name := cfg.Bin
	if nodisk {
		name = cfg.NodiskBin()
		if cfg.Img != "" {
			fileDeps = append(fileDeps, cfg.Img)
			taskDeps = append(taskDeps, cfg.Img)
		}
	}

	return &domain.Task{
		Name: name,
		Actions: []domain.Action{{Name: "bin", Run: func(ctx context.Context) error {
			return s.svc.Artifacts.BuildBin(ctx, cfg, nodisk)
		}}},
		Targets:  []string{name},
		FileDeps: fileDeps,
		TaskDeps: taskDeps,
		UpToDate: []domain.StalenessSignal{s.repoSignal(cfg.LinuxSrc)},
	}
}

func (s *Session) imgTask(cfg *domain.WorkloadConfig, hostInit []string, baseImg string) (*domain.Task, error) {
	taskDeps := append([]string(nil), hostInit...)
	var deps []string
	if baseImg != "" {
		deps = append(deps, baseImg)
		if s.produced(baseImg) {
			taskDeps = append(taskDeps, baseImg)
		}
	}
	for _, f := range cfg.Files {
		deps = append(deps, f.Src)
	}
	if cfg.Overlay != "" {
		deps = append(deps, cfg.Overlay)
	}

	var checks []func() error
	if cfg.GuestInit != nil {
		if cfg.GuestInit.Path != "" {
			deps = append(deps, cfg.GuestInit.Path)
			checks = append(checks, scriptExists(cfg.GuestInit.Path))
		}
		taskDeps = append(taskDeps, cfg.Bin)
	}
	if cfg.Run != nil && cfg.Run.Path != "" {
		deps = append(deps, cfg.Run.Path)
		checks = append(checks, scriptExists(cfg.Run.Path))
	}

	var gen ports.BootOverlayGenerator
	if cfg.GuestInit != nil || cfg.Run != nil {
		d, err := s.distro(cfg)
		if err != nil {
			return nil, err
		}
		gen = d
	}

	return &domain.Task{
		Name: cfg.Img,
		Actions: []domain.Action{{Name: "img", Run: func(ctx context.Context) error {
			return s.makeImage(ctx, cfg, baseImg, gen)
		}}},
		Targets:  []string{cfg.Img},
		FileDeps: s.svc.Walker.ExpandDeps(deps...),
		TaskDeps: taskDeps,
		Checks:   checks,
	}, nil
}

// makeImage layers the base image, the file list, the guest-init run and the
// run script onto cfg.Img.
func (s *Session) makeImage(ctx context.Context, cfg *domain.WorkloadConfig, baseImg string, gen ports.BootOverlayGenerator) error {
	images := s.svc.Images

	if baseImg != "" {
		if err := images.Materialize(cfg.Img, baseImg); err != nil {
			return err
		}
	}

	files, err := cfg.AllFiles()
	if err != nil {
		return err
	}
	if len(files) > 0 {
		s.svc.Logger.Info("applying file list to " + cfg.Img)
		if err := images.ApplyFiles(ctx, cfg.Img, files); err != nil {
			return err
		}
	}

	if cfg.GuestInit != nil {
		s.svc.Logger.Info("applying init script: " + cfg.GuestInit.Path)
		bootCfg := *cfg
		bootCfg.Nodisk = false
		state, err := images.RunGuestInit(ctx, cfg.Img, gen, *cfg.GuestInit, func(ctx context.Context) error {
			return s.svc.Launcher.Boot(ctx, &bootCfg)
		})
		if err != nil {
			s.discardInconsistent(cfg.Img, baseImg, state)
			return err
		}
	}

	if cfg.Run != nil {
		s.svc.Logger.Info("applying run script to " + cfg.Img)
		if err := images.InstallRunScript(ctx, cfg.Img, gen, *cfg.Run); err != nil {
			return err
		}
	}
	return nil
}

// discardInconsistent removes an image whose one-shot boot action could not be
// cleared, so the next build starts again from its base image.
func (s *Session) discardInconsistent(img, baseImg string, state domain.BootState) {
	if state != domain.BootScriptInstalled && state != domain.BootBooted {
		return
	}
	if baseImg == "" {
		s.svc.Logger.Warn(img + " still carries its guest-init boot action")
		return
	}
	s.svc.Logger.Warn("discarding " + img + ": guest-init boot action could not be cleared")
	if err := os.Remove(img); err != nil && !os.IsNotExist(err) {
		s.svc.Logger.Error(zerr.With(zerr.Wrap(err, "failed to discard image"), "image", img))
	}
}

// baseImage returns the image cfg's image starts from: its declared base
// image, otherwise its distro's base image.
func (s *Session) baseImage(cfg *domain.WorkloadConfig) (string, error) {
	if cfg.BaseImg != "" || cfg.Distro == "" {
		return cfg.BaseImg, nil
	}
	d, err := s.svc.Distros.Get(cfg.Distro)
	if err != nil {
		return "", zerr.With(err, "workload", cfg.Name)
	}
	return d.BaseImage(), nil
}

func (s *Session) distro(cfg *domain.WorkloadConfig) (ports.DistroBuilder, error) {
	name := cfg.Distro
	if name == "" {
		name = DefaultDistro
	}
	d, err := s.svc.Distros.Get(name)
	if err != nil {
		return nil, zerr.With(err, "workload", cfg.Name)
	}
	return d, nil
}

func (s *Session) repoSignal(path string) domain.StalenessSignal {
	return domain.StalenessSignal{
		Name: "repo:" + path,
		Value: func(ctx context.Context) (string, error) {
			if path == "" {
				return "", nil
			}
			return s.svc.Status.RepoStatus(ctx, path)
		},
	}
}

func (s *Session) toolchainSignal() domain.StalenessSignal {
	return domain.StalenessSignal{Name: ToolchainSignal, Value: s.svc.Status.ToolVersions}
}
