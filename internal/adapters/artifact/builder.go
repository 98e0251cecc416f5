// Package artifact builds the bootable kernel and bootloader binaries.
package artifact

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/marshal/internal/adapters/fs"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// BootloaderBinary is the bootloader's output inside its build directory.
	BootloaderBinary = "bbl"

	fragmentName = "initramfs.kfrag"
)

var _ ports.ArtifactBuilder = (*Builder)(nil)

// Builder implements ports.ArtifactBuilder.
type Builder struct {
	runner   ports.CommandRunner
	checker  ports.CheckoutChecker
	mounter  ports.ImageMounter
	archive  ports.ArchiveComposer
	kconfig  ports.KernelConfigComposer
	platform domain.Platform

	// kernelMu serializes builds sharing the kernel and bootloader trees.
	kernelMu sync.Mutex
}

// NewBuilder creates a new Builder.
func NewBuilder(
	runner ports.CommandRunner,
	checker ports.CheckoutChecker,
	mounter ports.ImageMounter,
	archive ports.ArchiveComposer,
	kconfig ports.KernelConfigComposer,
	platform domain.Platform,
) *Builder {
	return &Builder{
		runner:   runner,
		checker:  checker,
		mounter:  mounter,
		archive:  archive,
		kconfig:  kconfig,
		platform: platform,
	}
}

// BuildBin builds the kernel with an embedded initramfs, wraps it in the
// bootloader and copies the result to cfg.Bin, or cfg.NodiskBin() when nodisk is
// set. A workload without a kernel config ships a pre-built binary and is left alone.
func (b *Builder) BuildBin(ctx context.Context, cfg *domain.WorkloadConfig, nodisk bool) error {
	if !cfg.BuildsKernel() {
		return nil
	}

	for _, src := range []string{cfg.LinuxSrc, b.platform.BootloaderDir} {
		if err := b.checker.Check(src); err != nil {
			return zerr.With(err, "workload", cfg.Name)
		}
	}

	b.kernelMu.Lock()
	defer b.kernelMu.Unlock()

	if err := b.buildKernel(ctx, cfg, nodisk); err != nil {
		return zerr.With(err, "workload", cfg.Name)
	}

	dst := cfg.Bin
	if nodisk {
		dst = cfg.NodiskBin()
	}
	if err := b.buildBootloader(ctx, filepath.Join(cfg.LinuxSrc, "vmlinux"), dst); err != nil {
		return zerr.With(err, "workload", cfg.Name)
	}
	return nil
}

// BuildSupport builds busybox and installs it into the disk support tree.
func (b *Builder) BuildSupport(ctx context.Context) error {
	dir := b.platform.BusyboxDir
	if err := b.checker.Check(dir); err != nil {
		return err
	}
	if err := fs.CopyFile(b.platform.BusyboxConfig, filepath.Join(dir, ".config")); err != nil {
		return err
	}
	if err := b.runner.Run(ctx, ports.Command{Name: "make", Args: []string{b.platform.JobsFlag()}, Dir: dir}); err != nil {
		return err
	}
	return fs.CopyFile(filepath.Join(dir, "busybox"), b.platform.BusyboxTarget())
}

func (b *Builder) buildKernel(ctx context.Context, cfg *domain.WorkloadConfig, nodisk bool) error {
	drivers, err := b.kconfig.BuildDrivers(ctx, []string{cfg.LinuxConfig}, cfg.LinuxSrc)
	if err != nil {
		return err
	}

	scratch, err := os.MkdirTemp("", "marshal-initramfs-")
	if err != nil {
		return zerr.Wrap(err, "failed to create initramfs scratch directory")
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	includes := []string{drivers, b.platform.SupportTree(nodisk)}

	var archive string
	if nodisk {
		// The image's root filesystem must stay mounted while it is archived.
		err = b.mounter.WithMount(ctx, cfg.Img, true, func(root string) error {
			var cerr error
			archive, cerr = b.archive.Compose(ctx, append(includes, root), scratch, true)
			return cerr
		})
	} else {
		archive, err = b.archive.Compose(ctx, includes, scratch, true)
	}
	if err != nil {
		return err
	}

	frag := filepath.Join(scratch, fragmentName)
	if err := b.kconfig.WriteInitramfsFragment(archive, frag); err != nil {
		return err
	}
	if err := b.kconfig.GenerateConfig(ctx, []string{cfg.LinuxConfig, frag}, cfg.LinuxSrc); err != nil {
		return err
	}

	return b.runner.Run(ctx, ports.Command{
		Name: "make",
		Args: []string{
			"ARCH=" + b.platform.Arch,
			"CROSS_COMPILE=" + b.platform.CrossCompile,
			"vmlinux",
			b.platform.JobsFlag(),
		},
		Dir: cfg.LinuxSrc,
	})
}

// buildBootloader rebuilds the bootloader from scratch around payload.
// It does not notice payload changes, so the build directory is always recreated.
func (b *Builder) buildBootloader(ctx context.Context, payload, dst string) error {
	build := b.platform.BootloaderBuildDir()
	if err := os.RemoveAll(build); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to reset bootloader build directory"), "path", build)
	}
	if err := os.MkdirAll(build, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to reset bootloader build directory"), "path", build)
	}

	steps := []ports.Command{
		{Name: "../configure", Args: []string{"--host=" + b.platform.BootloaderHost, "--with-payload=" + payload}, Dir: build},
		{Name: "make", Args: []string{b.platform.JobsFlag()}, Dir: build},
	}
	for _, step := range steps {
		if err := b.runner.Run(ctx, step); err != nil {
			return err
		}
	}

	return fs.CopyFile(filepath.Join(build, BootloaderBinary), dst)
}
