// Package archive builds initramfs cpio archives.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// FinalName is the file name of the composed archive inside the scratch directory.
const FinalName = "initramfs.cpio"

// packScript archives the working directory to stdout in the newc format.
const packScript = "find . -print0 | cpio --null --quiet -o -H newc"

var _ ports.ArchiveComposer = (*Composer)(nil)

// Composer implements ports.ArchiveComposer with find and cpio.
type Composer struct {
	runner   ports.CommandRunner
	devNodes string
}

// NewComposer creates a Composer appending devNodes when device nodes are requested.
func NewComposer(runner ports.CommandRunner, devNodes string) *Composer {
	return &Composer{runner: runner, devNodes: devNodes}
}

// Compose archives every source tree concurrently, then concatenates the parts in
// source order. Later entries overwrite earlier ones on extraction.
func (c *Composer) Compose(ctx context.Context, srcs []string, scratchDir string, includeDevNodes bool) (string, error) {
	if err := os.MkdirAll(scratchDir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create archive directory"), "dir", scratchDir)
	}

	parts := make([]string, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		parts[i] = filepath.Join(scratchDir, fmt.Sprintf("%02d-%s.cpio", i, filepath.Base(src)))
		g.Go(func() error {
			return c.pack(gctx, src, parts[i])
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	if includeDevNodes {
		parts = append(parts, c.devNodes)
	}

	final := filepath.Join(scratchDir, FinalName)
	if err := concat(final, parts); err != nil {
		return "", err
	}
	return final, nil
}

func (c *Composer) pack(ctx context.Context, src, dst string) error {
	f, err := os.Create(dst) //nolint:gosec // Path is inside the scratch directory
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create archive"), "path", dst)
	}

	runErr := c.runner.Run(ctx, ports.Command{
		Name:   "sh",
		Args:   []string{"-c", packScript},
		Dir:    src,
		Stdout: f,
	})
	closeErr := f.Close()
	if runErr != nil {
		return zerr.With(runErr, "source", src)
	}
	if closeErr != nil {
		return zerr.With(zerr.Wrap(closeErr, "failed to write archive"), "path", dst)
	}
	return nil
}

func concat(dst string, parts []string) (err error) {
	out, err := os.Create(dst) //nolint:gosec // Path is inside the scratch directory
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create archive"), "path", dst)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = zerr.With(zerr.Wrap(cerr, "failed to write archive"), "path", dst)
		}
	}()

	for _, part := range parts {
		if err := appendFile(out, part); err != nil {
			return err
		}
	}
	return nil
}

func appendFile(w io.Writer, path string) error {
	in, err := os.Open(path) //nolint:gosec // Path is an archive part
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer in.Close() //nolint:errcheck // Read-only file

	if _, err := io.Copy(w, in); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write archive"), "path", path)
	}
	return nil
}
