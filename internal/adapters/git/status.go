// Package git fingerprints source checkouts and the cross toolchain.
package git

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.StalenessProvider = (*Status)(nil)
	_ ports.CheckoutChecker   = (*Status)(nil)
)

// Status implements ports.StalenessProvider and ports.CheckoutChecker using git
// and the toolchain's own version output.
type Status struct {
	runner   ports.CommandRunner
	platform domain.Platform
}

// NewStatus creates a new Status.
func NewStatus(runner ports.CommandRunner, platform domain.Platform) *Status {
	return &Status{runner: runner, platform: platform}
}

// RepoStatus returns a fingerprint of the checked out revision and the
// working tree changes of the repository at path.
func (s *Status) RepoStatus(ctx context.Context, path string) (string, error) {
	head, err := s.runner.Output(ctx, ports.Command{Name: "git", Args: []string{"-C", path, "rev-parse", "HEAD"}})
	if err != nil {
		return "", zerr.With(err, "repo", path)
	}
	dirty, err := s.runner.Output(ctx, ports.Command{
		Name: "git",
		Args: []string{"-C", path, "status", "--porcelain", "--untracked-files=no"},
	})
	if err != nil {
		return "", zerr.With(err, "repo", path)
	}
	if dirty == "" {
		return head, nil
	}
	return fmt.Sprintf("%s+%016x", head, xxhash.Sum64String(dirty)), nil
}

// ToolVersions returns the version banners of the Linux and bare-metal cross compilers.
func (s *Status) ToolVersions(ctx context.Context) (string, error) {
	compilers := []string{
		s.platform.CrossCompile + "gcc",
		s.platform.BootloaderHost + "-gcc",
	}

	versions := make([]string, 0, len(compilers))
	for _, cc := range compilers {
		out, err := s.runner.Output(ctx, ports.Command{Name: cc, Args: []string{"--version"}})
		if err != nil {
			return "", err
		}
		first, _, _ := strings.Cut(out, "\n")
		versions = append(versions, first)
	}
	return strings.Join(versions, "\n"), nil
}

// Check reports ErrMissingExternalCheckout when path is not a populated directory.
// An uninitialized submodule is an empty directory.
func (s *Status) Check(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil || len(entries) == 0 {
		return domain.Annotate(domain.ErrMissingExternalCheckout, "path", path)
	}
	return nil
}
