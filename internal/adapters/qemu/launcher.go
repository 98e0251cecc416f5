// Package qemu boots workloads under RISC-V system emulation.
package qemu

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// Binary is the emulator executable.
	Binary = "qemu-system-riscv64"

	// DefaultMemoryMiB is the guest memory used when a workload does not set one.
	DefaultMemoryMiB = 16384

	// DefaultCPUs is the guest CPU count used when a workload does not set one.
	DefaultCPUs = 4
)

var _ ports.Launcher = (*Launcher)(nil)

// Launcher implements ports.Launcher by running qemu on a pseudo terminal.
// The guest console is merged into one stream and forwarded line by line.
type Launcher struct {
	logger ports.Logger
}

// NewLauncher creates a new Launcher.
func NewLauncher(logger ports.Logger) *Launcher {
	return &Launcher{logger: logger}
}

// Args returns the emulator arguments used to boot cfg.
func Args(cfg *domain.WorkloadConfig) []string {
	mem := cfg.Launch.MemoryMiB
	if mem <= 0 {
		mem = DefaultMemoryMiB
	}
	cpus := cfg.Launch.CPUs
	if cpus <= 0 {
		cpus = DefaultCPUs
	}

	bin := cfg.Bin
	if cfg.Nodisk {
		bin = cfg.NodiskBin()
	}

	args := []string{
		"-nographic",
		"-bios", "none",
		"-machine", "virt",
		"-smp", strconv.Itoa(cpus),
		"-m", strconv.Itoa(mem),
		"-kernel", bin,
		"-object", "rng-random,filename=/dev/urandom,id=rng0",
		"-device", "virtio-rng-device,rng=rng0",
	}
	if !cfg.Nodisk && cfg.Img != "" {
		args = append(args,
			"-device", "virtio-blk-device,drive=hd0",
			"-drive", "file="+cfg.Img+",format=raw,id=hd0",
		)
	}
	return append(args, cfg.Launch.ExtraArgs...)
}

// Boot runs the emulator until the guest powers off.
func (l *Launcher) Boot(ctx context.Context, cfg *domain.WorkloadConfig) error {
	args := Args(cfg)
	l.logger.Info("launching " + cfg.Name + ": " + Binary + " " + strings.Join(args, " "))

	console := &lineWriter{logger: l.logger}
	var out io.Writer = console
	if v, ok := ports.VertexFromContext(ctx); ok {
		out = io.MultiWriter(console, v.Stdout())
	}

	cmd := exec.CommandContext(ctx, Binary, args...) //nolint:gosec // emulator invocation
	cmd.Dir = cfg.Workdir

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return launchError(cfg, zerr.Wrap(err, "failed to start pty"))
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		defer func() { _ = console.Close() }()
		_, _ = io.Copy(out, ptmx)
	}()

	err = cmd.Wait()
	<-ioDone
	if err != nil {
		return launchError(cfg, err)
	}
	return nil
}

func launchError(cfg *domain.WorkloadConfig, err error) error {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	wrapped := domain.Annotate(domain.ErrExternalToolFailure, "command", Binary)
	wrapped = zerr.With(wrapped, "workload", cfg.Name)
	wrapped = zerr.With(wrapped, "exit_code", exitCode)
	return zerr.With(wrapped, "reason", err.Error())
}

// lineWriter forwards guest console lines to the logger.
type lineWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logger.Info(strings.TrimSuffix(string(w.buf[:i]), "\r"))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *lineWriter) Close() error {
	if len(w.buf) > 0 {
		w.logger.Info(strings.TrimSuffix(string(w.buf), "\r"))
		w.buf = nil
	}
	return nil
}
