// Package shell runs external tools for the build.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes the command, streaming its output to the logger and the
// telemetry vertex carried by ctx.
func (r *Runner) Run(ctx context.Context, c ports.Command) error {
	stdoutLog := &logWriter{logger: r.logger, level: "info"}
	stderrLog := &logWriter{logger: r.logger, level: "warn"}
	defer func() {
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
	}()

	var stdout, stderr io.Writer = stdoutLog, stderrLog
	if v, ok := ports.VertexFromContext(ctx); ok {
		stdout = io.MultiWriter(stdoutLog, v.Stdout())
		stderr = io.MultiWriter(stderrLog, v.Stderr())
	}
	if c.Stdout != nil {
		stdout = c.Stdout
	}

	cmd := command(ctx, c)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return toolError(c, err)
	}
	return nil
}

// Output executes the command and returns its trimmed standard output.
func (r *Runner) Output(ctx context.Context, c ports.Command) (string, error) {
	stderrLog := &logWriter{logger: r.logger, level: "warn"}
	defer func() { _ = stderrLog.Close() }()

	var out bytes.Buffer
	cmd := command(ctx, c)
	cmd.Stdout = &out
	cmd.Stderr = stderrLog

	if err := cmd.Run(); err != nil {
		return "", toolError(c, err)
	}
	return strings.TrimSpace(out.String()), nil
}

func command(ctx context.Context, c ports.Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...) //nolint:gosec // build tool invocation
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	return cmd
}

func toolError(c ports.Command, err error) error {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	wrapped := domain.Annotate(domain.ErrExternalToolFailure, "command", strings.Join(append([]string{c.Name}, c.Args...), " "))
	wrapped = zerr.With(wrapped, "exit_code", exitCode)
	return zerr.With(wrapped, "reason", err.Error())
}

type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Close flushes a trailing partial line.
func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if w.level == "info" {
		w.logger.Info(msg)
		return
	}
	w.logger.Warn(msg)
}
