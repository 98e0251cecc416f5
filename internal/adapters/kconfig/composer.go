// Package kconfig composes kernel configurations and builds board drivers.
package kconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/marshal/internal/adapters/fs"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// mergeScript is the kernel's fragment merge helper, relative to the source tree.
const mergeScript = "scripts/kconfig/merge_config.sh"

var _ ports.KernelConfigComposer = (*Composer)(nil)

// Composer implements ports.KernelConfigComposer with the kernel's make targets.
type Composer struct {
	runner   ports.CommandRunner
	checker  ports.CheckoutChecker
	platform domain.Platform
}

// NewComposer creates a new Composer.
func NewComposer(runner ports.CommandRunner, checker ports.CheckoutChecker, platform domain.Platform) *Composer {
	return &Composer{runner: runner, checker: checker, platform: platform}
}

// DefconfigPath returns where the reference defconfig of linuxSrc is kept.
func (c *Composer) DefconfigPath(linuxSrc string) string {
	return filepath.Join(c.platform.GenDir, fmt.Sprintf("defconfig-%016x", xxhash.Sum64String(linuxSrc)))
}

// GenerateConfig writes linuxSrc/.config as the architecture defconfig with
// kfrags merged over it in order.
func (c *Composer) GenerateConfig(ctx context.Context, kfrags []string, linuxSrc string) error {
	if err := c.runner.Run(ctx, ports.Command{
		Name: "make",
		Args: []string{"ARCH=" + c.platform.Arch, "defconfig"},
		Dir:  linuxSrc,
	}); err != nil {
		return zerr.With(err, "linux_src", linuxSrc)
	}

	defconfig := c.DefconfigPath(linuxSrc)
	if err := fs.CopyFile(filepath.Join(linuxSrc, ".config"), defconfig); err != nil {
		return err
	}

	return c.runner.Run(ctx, ports.Command{
		Name: filepath.Join(linuxSrc, mergeScript),
		Args: append([]string{defconfig}, kfrags...),
		Dir:  linuxSrc,
		Env:  []string{"ARCH=" + c.platform.Arch},
	})
}

// WriteInitramfsFragment writes a fragment that embeds archive as an
// LZO-compressed initramfs.
func (c *Composer) WriteInitramfsFragment(archive, dst string) error {
	var b strings.Builder
	b.WriteString("CONFIG_BLK_DEV_INITRD=y\n")
	b.WriteString("CONFIG_INITRAMFS_COMPRESSION=\".lzo\"\n")
	b.WriteString("CONFIG_INITRAMFS_COMPRESSION_LZO=y\n")
	b.WriteString("CONFIG_INITRAMFS_SOURCE=\"" + archive + "\"\n")

	if err := os.WriteFile(dst, []byte(b.String()), domain.FilePerm); err != nil { //nolint:gosec // Path is controlled by caller
		return zerr.With(zerr.Wrap(err, "failed to write config fragment"), "path", dst)
	}
	return nil
}

// BuildDrivers prepares linuxSrc for external modules, builds every driver
// under the board's drivers directory and installs the modules into the
// initramfs drivers tree, which is returned.
func (c *Composer) BuildDrivers(ctx context.Context, kfrags []string, linuxSrc string) (string, error) {
	if err := c.GenerateConfig(ctx, kfrags, linuxSrc); err != nil {
		return "", err
	}

	if err := c.runner.Run(ctx, ports.Command{
		Name: "make",
		Args: []string{"ARCH=" + c.platform.Arch, "CROSS_COMPILE=" + c.platform.CrossCompile, "modules_prepare", c.platform.JobsFlag()},
		Dir:  linuxSrc,
	}); err != nil {
		return "", zerr.With(err, "linux_src", linuxSrc)
	}

	release, err := c.runner.Output(ctx, ports.Command{
		Name: "make",
		Args: []string{"ARCH=" + c.platform.Arch, "kernelrelease"},
		Dir:  linuxSrc,
	})
	if err != nil {
		return "", zerr.With(err, "linux_src", linuxSrc)
	}

	modules, err := c.buildModules(ctx, linuxSrc)
	if err != nil {
		return "", err
	}

	tree := c.platform.DriversTree()
	moduleDir := filepath.Join(tree, "lib", "modules", release)
	if err := os.RemoveAll(moduleDir); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to reset module directory"), "path", moduleDir)
	}
	if err := os.MkdirAll(moduleDir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to reset module directory"), "path", moduleDir)
	}
	for _, ko := range modules {
		if err := fs.CopyFile(ko, filepath.Join(moduleDir, filepath.Base(ko))); err != nil {
			return "", err
		}
	}

	if err := c.runner.Run(ctx, ports.Command{Name: "depmod", Args: []string{"-b", tree, release}}); err != nil {
		return "", err
	}
	return tree, nil
}

// buildModules rebuilds each board driver from clean and returns the built
// kernel objects in driver order.
func (c *Composer) buildModules(ctx context.Context, linuxSrc string) ([]string, error) {
	dirs, err := c.driverDirs()
	if err != nil {
		return nil, err
	}

	found := make([][]string, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	for i, dir := range dirs {
		g.Go(func() error {
			if err := c.checker.Check(dir); err != nil {
				return err
			}
			// Drivers do not notice kernel changes, so always start clean.
			for _, target := range [][]string{{"clean"}, nil} {
				args := append([]string{"LINUXSRC=" + linuxSrc}, target...)
				if err := c.runner.Run(gctx, ports.Command{Name: "make", Args: args, Dir: dir}); err != nil {
					return zerr.With(err, "driver", dir)
				}
			}
			kos, err := filepath.Glob(filepath.Join(dir, "*.ko"))
			if err != nil {
				return zerr.Wrap(err, "failed to list kernel modules")
			}
			found[i] = kos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var modules []string
	for _, kos := range found {
		modules = append(modules, kos...)
	}
	return modules, nil
}

func (c *Composer) driverDirs() ([]string, error) {
	root := filepath.Join(c.platform.BoardDir, "drivers")
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to list board drivers"), "path", root)
	}

	dirs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	return dirs, nil
}
