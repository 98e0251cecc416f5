// Package config loads workload descriptors and the platform layout.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.WorkloadLoader = (*Loader)(nil)

// ImagesDirName is the directory, relative to the platform root, that holds
// default workload outputs.
const ImagesDirName = "images"

// Loader implements ports.WorkloadLoader for YAML descriptors.
type Loader struct {
	platform domain.Platform
}

// NewLoader creates a new Loader resolving default outputs under platform.Root.
func NewLoader(platform domain.Platform) *Loader {
	return &Loader{platform: platform}
}

// Load reads every *.yaml and *.yml descriptor in dir and resolves base
// inheritance. The result is keyed by workload name.
func (l *Loader) Load(dir string) (map[string]*domain.WorkloadConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "dir", dir)
	}

	descs := make(map[string]*Descriptor)
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		d, err := readDescriptor(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if d.Name == "" {
			d.Name = strings.TrimSuffix(e.Name(), ext)
		}
		descs[d.Name] = d
	}

	r := &resolver{
		loader:   l,
		descs:    descs,
		resolved: make(map[string]*domain.WorkloadConfig, len(descs)),
		visiting: make(map[string]bool),
	}
	for name := range descs {
		if _, err := r.resolve(name); err != nil {
			return nil, err
		}
	}
	return r.resolved, nil
}

func readDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	d.dir = filepath.Dir(path)
	return &d, nil
}

type resolver struct {
	loader   *Loader
	descs    map[string]*Descriptor
	resolved map[string]*domain.WorkloadConfig
	visiting map[string]bool
}

func (r *resolver) resolve(name string) (*domain.WorkloadConfig, error) {
	if cfg, ok := r.resolved[name]; ok {
		return cfg, nil
	}
	d, ok := r.descs[name]
	if !ok {
		return nil, domain.Annotate(domain.ErrUnknownBase, "base", name)
	}
	if r.visiting[name] {
		return nil, domain.Annotate(domain.ErrCycleDetected, "workload", name)
	}
	r.visiting[name] = true
	defer delete(r.visiting, name)

	var parent *domain.WorkloadConfig
	if d.Base != "" {
		p, err := r.resolve(d.Base)
		if err != nil {
			return nil, zerr.With(err, "workload", name)
		}
		parent = p
	}

	cfg, err := r.loader.build(name, d, parent)
	if err != nil {
		return nil, err
	}
	r.resolved[name] = cfg
	return cfg, nil
}

// build turns a descriptor into a config, inheriting from parent.
func (l *Loader) build(name string, d *Descriptor, parent *domain.WorkloadConfig) (*domain.WorkloadConfig, error) {
	cfg := &domain.WorkloadConfig{
		Name:        name,
		Bin:         resolvePath(d.dir, d.Bin),
		Img:         resolvePath(d.dir, d.Img),
		Nodisk:      d.Nodisk,
		LinuxConfig: resolvePath(d.dir, d.LinuxConfig),
		LinuxSrc:    resolvePath(d.dir, d.LinuxSrc),
		BaseImg:     resolvePath(d.dir, d.BaseImg),
		Distro:      d.Distro,
		Overlay:     resolvePath(d.dir, d.Overlay),
		GuestInit:   resolveRunSpec(d.dir, d.GuestInit),
		Run:         resolveRunSpec(d.dir, d.Run),
		HostInit:    resolvePath(d.dir, d.HostInit),
		Workdir:     d.dir,
	}
	for _, f := range d.Files {
		cfg.Files = append(cfg.Files, domain.FileSpec{Src: resolvePath(d.dir, f.Src), Dst: f.Dst})
	}
	if d.Launch != nil {
		cfg.Launch = *d.Launch
	}

	if parent != nil {
		inherit(cfg, parent)
	}
	l.applyDefaults(cfg)

	if len(d.Jobs) > 0 {
		cfg.Jobs = make(map[string]*domain.WorkloadConfig, len(d.Jobs))
		for jobName, jd := range d.Jobs {
			jd.dir = d.dir
			job, err := l.build(name+"-"+jobName, jd, cfg)
			if err != nil {
				return nil, err
			}
			cfg.Jobs[jobName] = job
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// inherit fills unset fields of cfg from parent. A child that does not build
// its own kernel boots the parent's binary, and the parent's image becomes
// the child's base image.
func inherit(cfg, parent *domain.WorkloadConfig) {
	if cfg.Distro == "" {
		cfg.Distro = parent.Distro
	}
	if cfg.LinuxSrc == "" {
		cfg.LinuxSrc = parent.LinuxSrc
	}
	if cfg.LinuxConfig == "" && cfg.Bin == "" {
		cfg.LinuxConfig = parent.LinuxConfig
		cfg.Bin = parent.Bin
	}
	if cfg.BaseImg == "" && parent.Img != "" {
		cfg.BaseImg = parent.Img
	}
	if cfg.BaseImg == "" {
		cfg.BaseImg = parent.BaseImg
	}
	if cfg.Launch.MemoryMiB == 0 {
		cfg.Launch.MemoryMiB = parent.Launch.MemoryMiB
	}
	if cfg.Launch.CPUs == 0 {
		cfg.Launch.CPUs = parent.Launch.CPUs
	}
	if len(cfg.Launch.ExtraArgs) == 0 {
		cfg.Launch.ExtraArgs = parent.Launch.ExtraArgs
	}
}

// applyDefaults names the outputs a workload produces but did not place.
func (l *Loader) applyDefaults(cfg *domain.WorkloadConfig) {
	out := filepath.Join(l.platform.Root, ImagesDirName)
	if cfg.LinuxSrc == "" && cfg.LinuxConfig != "" {
		cfg.LinuxSrc = l.platform.LinuxDir
	}
	if cfg.Bin == "" && cfg.LinuxConfig != "" {
		cfg.Bin = filepath.Join(out, cfg.Name+"-bin")
	}
	if cfg.Img == "" && !cfg.Nodisk && (cfg.BaseImg != "" || cfg.Distro != "") {
		cfg.Img = filepath.Join(out, cfg.Name+".img")
	}
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func resolveRunSpec(dir string, spec *domain.RunSpec) *domain.RunSpec {
	if spec == nil {
		return nil
	}
	out := *spec
	out.Path = resolvePath(dir, spec.Path)
	return &out
}
