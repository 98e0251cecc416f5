// Package distro builds distribution base images and the overlays that swap
// their boot action.
package distro

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/marshal/internal/adapters/fs"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/zerr"
)

// InitStyle selects how a distro's image starts its boot action.
type InitStyle int

const (
	// SysVInit installs the boot action as an init.d script.
	SysVInit InitStyle = iota
	// SystemdInit installs the boot action as an enabled oneshot unit.
	SystemdInit
)

// ScriptName is the in-image path the workload script is installed at.
const ScriptName = "marshal.sh"

// Recipe describes how a distro base image is produced.
type Recipe struct {
	Name  string
	Init  InitStyle
	Image string

	// Source is the checkout the image is built from. Empty when the image
	// is built without an external tree.
	Source string
	// Config is copied to Source/.config before building.
	Config string
	// Build is run in order to produce Output.
	Build []ports.Command
	// Output is copied to Image after Build when it differs from Image.
	Output string
}

var _ ports.DistroBuilder = (*Builder)(nil)

// Builder implements ports.DistroBuilder for a Recipe.
type Builder struct {
	recipe  Recipe
	runner  ports.CommandRunner
	status  ports.StalenessProvider
	checker ports.CheckoutChecker
	workDir string
}

// NewBuilder creates a Builder. Overlays are generated under workDir.
func NewBuilder(
	recipe Recipe,
	runner ports.CommandRunner,
	status ports.StalenessProvider,
	checker ports.CheckoutChecker,
	workDir string,
) *Builder {
	return &Builder{
		recipe:  recipe,
		runner:  runner,
		status:  status,
		checker: checker,
		workDir: workDir,
	}
}

// Name returns the distro name.
func (b *Builder) Name() string {
	return b.recipe.Name
}

// BaseImage returns the path of the distro's base image.
func (b *Builder) BaseImage() string {
	return b.recipe.Image
}

// FileDeps returns the inputs of the base image build.
func (b *Builder) FileDeps() []string {
	if b.recipe.Config == "" {
		return nil
	}
	return []string{b.recipe.Config}
}

// UpToDate returns the revision signal of the distro's source checkout.
func (b *Builder) UpToDate() []domain.StalenessSignal {
	if b.recipe.Source == "" {
		return nil
	}
	src := b.recipe.Source
	return []domain.StalenessSignal{{
		Name: b.recipe.Name + "-source",
		Value: func(ctx context.Context) (string, error) {
			return b.status.RepoStatus(ctx, src)
		},
	}}
}

// BuildBaseImage builds the distro and places its root filesystem at BaseImage.
func (b *Builder) BuildBaseImage(ctx context.Context) error {
	if b.recipe.Image == "" {
		return nil
	}
	if b.recipe.Source != "" {
		if err := b.checker.Check(b.recipe.Source); err != nil {
			return err
		}
	}
	if b.recipe.Config != "" {
		if err := fs.CopyFile(b.recipe.Config, filepath.Join(b.recipe.Source, ".config")); err != nil {
			return err
		}
	}
	for _, cmd := range b.recipe.Build {
		if err := b.runner.Run(ctx, cmd); err != nil {
			return zerr.With(err, "distro", b.recipe.Name)
		}
	}
	if b.recipe.Output != "" && b.recipe.Output != b.recipe.Image {
		return fs.CopyFile(b.recipe.Output, b.recipe.Image)
	}
	return nil
}

// GenerateBootScriptOverlay writes a fresh overlay directory that makes script
// the image's boot action. An empty script produces the no-op action.
func (b *Builder) GenerateBootScriptOverlay(script string, args []string) (string, error) {
	if err := os.MkdirAll(b.workDir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create overlay directory"), "distro", b.recipe.Name)
	}
	dir, err := os.MkdirTemp(b.workDir, b.recipe.Name+"-overlay-")
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create overlay directory"), "distro", b.recipe.Name)
	}

	action := ""
	if script != "" {
		if err := fs.CopyFile(script, filepath.Join(dir, ScriptName)); err != nil {
			_ = os.RemoveAll(dir)
			return "", err
		}
		if err := os.Chmod(filepath.Join(dir, ScriptName), domain.ScriptPerm); err != nil {
			_ = os.RemoveAll(dir)
			return "", zerr.Wrap(err, "failed to mark boot script executable")
		}
		action = shellJoin(append([]string{"/" + ScriptName}, args...))
	}

	if b.recipe.Init == SystemdInit {
		err = writeSystemdUnit(dir, action)
	} else {
		err = writeInitScript(dir, action)
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", zerr.With(err, "distro", b.recipe.Name)
	}
	return dir, nil
}

// shellJoin quotes args for a POSIX shell.
func shellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a != "" && strings.IndexFunc(a, unsafeShellRune) < 0 {
			quoted[i] = a
			continue
		}
		quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}

func unsafeShellRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("-_./=:,+@%", r):
		return false
	}
	return true
}
