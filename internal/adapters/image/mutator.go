// Package image mutates workload disk images.
package image

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/marshal/internal/adapters/fs"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ImageMutator = (*Mutator)(nil)

// Mutator implements ports.ImageMutator on loop-mounted images.
type Mutator struct {
	mounter ports.ImageMounter
	runner  ports.CommandRunner
	genDir  string
	sudo    bool
}

// NewMutator creates a Mutator writing generated scripts to genDir.
// When sudo is set, copies into mounted images run through sudo.
func NewMutator(mounter ports.ImageMounter, runner ports.CommandRunner, genDir string, sudo bool) *Mutator {
	return &Mutator{mounter: mounter, runner: runner, genDir: genDir, sudo: sudo}
}

// Materialize copies baseImg to img. An existing img is left untouched.
func (m *Mutator) Materialize(img, baseImg string) error {
	if _, err := os.Stat(img); err == nil {
		return nil
	}
	return fs.CopyFile(baseImg, img)
}

// ApplyFiles copies each file into the image, recursing into directories.
func (m *Mutator) ApplyFiles(ctx context.Context, img string, files []domain.FileSpec) error {
	if len(files) == 0 {
		return nil
	}
	return m.mounter.WithMount(ctx, img, false, func(root string) error {
		for _, f := range files {
			dst := filepath.Join(root, f.Dst)
			if err := m.runner.Run(ctx, m.command("cp", "-a", f.Src, dst)); err != nil {
				return zerr.With(zerr.With(err, "src", f.Src), "image", img)
			}
		}
		return nil
	})
}

// ApplyOverlay copies the contents of dir into the root of the image.
func (m *Mutator) ApplyOverlay(ctx context.Context, img, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "overlay", dir)
	}
	files := make([]domain.FileSpec, 0, len(entries))
	for _, e := range entries {
		files = append(files, domain.FileSpec{Src: filepath.Join(dir, e.Name()), Dst: "/"})
	}
	return m.ApplyFiles(ctx, img, files)
}

// RunGuestInit makes spec the image's boot action, boots the image and then
// resets the boot action to the no-op one. The reset happens even when the
// boot fails. A missing script is reported before the image is touched.
func (m *Mutator) RunGuestInit(
	ctx context.Context,
	img string,
	gen ports.BootOverlayGenerator,
	spec domain.RunSpec,
	boot func(context.Context) error,
) (state domain.BootState, err error) {
	script, err := m.scriptFor(spec)
	if err != nil {
		return domain.BootIdle, err
	}

	state = domain.BootIdle
	if err := m.installBootAction(ctx, img, gen, script, spec.Args); err != nil {
		return state, err
	}
	state = advance(state, domain.BootScriptInstalled)

	defer func() {
		if cerr := m.installBootAction(context.WithoutCancel(ctx), img, gen, "", nil); cerr != nil {
			err = errors.Join(err, cerr)
			return
		}
		state = advance(state, domain.BootCleared)
	}()

	if err := boot(ctx); err != nil {
		return state, err
	}
	return advance(state, domain.BootBooted), nil
}

// InstallRunScript makes spec the image's permanent boot action.
func (m *Mutator) InstallRunScript(ctx context.Context, img string, gen ports.BootOverlayGenerator, spec domain.RunSpec) error {
	script, err := m.scriptFor(spec)
	if err != nil {
		return err
	}
	return m.installBootAction(ctx, img, gen, script, spec.Args)
}

// ScriptPath returns where the script generated for command is written.
func (m *Mutator) ScriptPath(command string) string {
	return filepath.Join(m.genDir, fmt.Sprintf("cmd-%016x.sh", xxhash.Sum64String(command)))
}

func (m *Mutator) installBootAction(
	ctx context.Context,
	img string,
	gen ports.BootOverlayGenerator,
	script string,
	args []string,
) error {
	overlay, err := gen.GenerateBootScriptOverlay(script, args)
	if err != nil {
		return zerr.With(err, "image", img)
	}
	defer func() { _ = os.RemoveAll(overlay) }()

	return m.ApplyOverlay(ctx, img, overlay)
}

// scriptFor returns the host path of the script spec runs, generating one for
// inline commands.
func (m *Mutator) scriptFor(spec domain.RunSpec) (string, error) {
	if spec.Command == "" {
		if _, err := os.Stat(spec.Path); err != nil {
			return "", domain.Annotate(domain.ErrMissingScript, "path", spec.Path)
		}
		return spec.Path, nil
	}

	path := m.ScriptPath(spec.Command)
	if err := os.MkdirAll(m.genDir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to write command script"), "path", path)
	}
	body := "#!/bin/sh\n\n" + spec.Command + "\n"
	if err := os.WriteFile(path, []byte(body), domain.ScriptPerm); err != nil { //nolint:gosec // Generated script must be executable
		return "", zerr.With(zerr.Wrap(err, "failed to write command script"), "path", path)
	}
	return path, nil
}

func (m *Mutator) command(name string, args ...string) ports.Command {
	if m.sudo {
		return ports.Command{Name: "sudo", Args: append([]string{name}, args...)}
	}
	return ports.Command{Name: name, Args: args}
}

// advance moves s to next, keeping s when the transition is not allowed.
func advance(s, next domain.BootState) domain.BootState {
	n, err := s.Next(next)
	if err != nil {
		return s
	}
	return n
}
