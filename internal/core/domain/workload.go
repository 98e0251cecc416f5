package domain

import (
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/zerr"
)

// NodiskSuffix is appended to a workload's binary path to name its disk-less variant.
const NodiskSuffix = "-nodisk"

// FileSpec describes a single file or directory to inject into an image.
type FileSpec struct {
	Src string `yaml:"src"`
	Dst string `yaml:"dst"`
}

// RunSpec describes a script to run inside the guest.
// Exactly one of Command or Path is meaningful.
type RunSpec struct {
	Command string   `yaml:"command,omitempty"`
	Path    string   `yaml:"path,omitempty"`
	Args    []string `yaml:"args,omitempty"`
}

// Validate checks that exactly one of Command or Path is set.
func (r *RunSpec) Validate() error {
	if (r.Command == "") == (r.Path == "") {
		return Annotate(ErrInvalidRunSpec, "path", r.Path)
	}
	return nil
}

// LaunchOptions configures the emulator used to boot a workload.
type LaunchOptions struct {
	MemoryMiB int      `yaml:"mem,omitempty"`
	CPUs      int      `yaml:"cpus,omitempty"`
	ExtraArgs []string `yaml:"qemu-args,omitempty"`
}

// WorkloadConfig is a named build goal. It is read-only once constructed.
type WorkloadConfig struct {
	Name        string
	Bin         string
	Img         string
	Nodisk      bool
	LinuxConfig string
	LinuxSrc    string
	BaseImg     string
	Distro      string
	Files       []FileSpec
	Overlay     string
	GuestInit   *RunSpec
	Run         *RunSpec
	HostInit    string
	Workdir     string
	Launch      LaunchOptions
	Jobs        map[string]*WorkloadConfig
}

// Validate checks the config's structural invariants.
func (c *WorkloadConfig) Validate() error {
	if c.Nodisk && c.Bin == "" {
		return Annotate(ErrNodiskWithoutBin, "workload", c.Name)
	}
	if c.GuestInit != nil && c.Bin == "" {
		return Annotate(ErrGuestInitWithoutBin, "workload", c.Name)
	}
	for _, spec := range []*RunSpec{c.GuestInit, c.Run} {
		if spec == nil {
			continue
		}
		if err := spec.Validate(); err != nil {
			return zerr.With(err, "workload", c.Name)
		}
	}
	return nil
}

// NodiskBin returns the output path of the disk-less binary.
func (c *WorkloadConfig) NodiskBin() string {
	return c.Bin + NodiskSuffix
}

// BuildsKernel reports whether the workload builds its own kernel.
func (c *WorkloadConfig) BuildsKernel() bool {
	return c.LinuxConfig != ""
}

// AllFiles returns Files followed by the expansion of Overlay.
// Every immediate child of the overlay directory becomes a FileSpec rooted at "/".
// The config itself is not modified.
func (c *WorkloadConfig) AllFiles() ([]FileSpec, error) {
	files := slices.Clone(c.Files)
	if c.Overlay == "" {
		return files, nil
	}

	entries, err := os.ReadDir(c.Overlay)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrPathStatFailed.Error()), "overlay", c.Overlay)
	}
	for _, e := range entries {
		files = append(files, FileSpec{Src: filepath.Join(c.Overlay, e.Name()), Dst: "/"})
	}
	return files, nil
}

// JobNames returns the names of nested jobs in sorted order.
func (c *WorkloadConfig) JobNames() []string {
	names := make([]string, 0, len(c.Jobs))
	for name := range c.Jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
