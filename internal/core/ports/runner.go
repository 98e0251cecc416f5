// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Command describes an external process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds "KEY=VALUE" overrides applied on top of the process environment.
	Env []string
	// Stdout, when set, receives the process's standard output instead of the logger.
	Stdout io.Writer
}

// CommandRunner runs external build tools, archivers and the emulator.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes the command to completion.
	// A non-zero exit status is reported as domain.ErrExternalToolFailure.
	Run(ctx context.Context, cmd Command) error

	// Output executes the command and returns its trimmed standard output.
	Output(ctx context.Context, cmd Command) (string, error)
}
