package distro_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/marshal/internal/adapters/distro"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/marshal/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBuilder_GenerateBootScriptOverlay_SysV(t *testing.T) {
	script := filepath.Join(t.TempDir(), "init.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho hi\n"), 0o600))

	b := distro.NewBuilder(distro.Recipe{Name: "br", Init: distro.SysVInit}, nil, nil, nil, t.TempDir())

	dir, err := b.GenerateBootScriptOverlay(script, []string{"--count", "2", "hello world"})
	require.NoError(t, err)

	copied, err := os.ReadFile(filepath.Join(dir, distro.ScriptName))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho hi\n", string(copied))

	info, err := os.Stat(filepath.Join(dir, distro.ScriptName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.ScriptPerm), info.Mode().Perm())

	initScript, err := os.ReadFile(filepath.Join(dir, "etc", "init.d", "S99run"))
	require.NoError(t, err)
	goldie.New(t).Assert(t, "sysv_run", initScript)
}

func TestBuilder_GenerateBootScriptOverlay_Clear(t *testing.T) {
	b := distro.NewBuilder(distro.Recipe{Name: "br", Init: distro.SysVInit}, nil, nil, nil, t.TempDir())

	dir, err := b.GenerateBootScriptOverlay("", nil)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, distro.ScriptName))
	require.ErrorIs(t, err, os.ErrNotExist)

	initScript, err := os.ReadFile(filepath.Join(dir, "etc", "init.d", "S99run"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\nexit 0\n", string(initScript))

	// Every call produces a fresh directory.
	again, err := b.GenerateBootScriptOverlay("", nil)
	require.NoError(t, err)
	assert.NotEqual(t, dir, again)
}

func TestBuilder_GenerateBootScriptOverlay_Systemd(t *testing.T) {
	script := filepath.Join(t.TempDir(), "run.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"), 0o600))

	b := distro.NewBuilder(distro.Recipe{Name: "fedora", Init: distro.SystemdInit}, nil, nil, nil, t.TempDir())

	dir, err := b.GenerateBootScriptOverlay(script, nil)
	require.NoError(t, err)

	unit, err := os.ReadFile(filepath.Join(dir, "etc", "systemd", "system", "marshal-run.service"))
	require.NoError(t, err)
	goldie.New(t).Assert(t, "systemd_run", unit)

	link, err := os.Readlink(filepath.Join(dir, "etc", "systemd", "system", "multi-user.target.wants", "marshal-run.service"))
	require.NoError(t, err)
	assert.Equal(t, "/etc/systemd/system/marshal-run.service", link)
}

func TestBuilder_GenerateBootScriptOverlay_MissingScript(t *testing.T) {
	work := t.TempDir()
	b := distro.NewBuilder(distro.Recipe{Name: "br"}, nil, nil, nil, work)

	_, err := b.GenerateBootScriptOverlay(filepath.Join(work, "absent.sh"), nil)
	require.ErrorContains(t, err, "failed to copy file")

	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuilder_BuildBaseImage(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "buildroot")
	cfgPath := filepath.Join(root, "buildroot-config")
	out := filepath.Join(src, "output", "images", "rootfs.ext2")
	img := filepath.Join(root, "rootfs.img")

	require.NoError(t, os.MkdirAll(filepath.Dir(out), 0o750))
	require.NoError(t, os.WriteFile(cfgPath, []byte("BR2_riscv=y\n"), 0o600))

	build := ports.Command{Name: "make", Args: []string{"-j2"}, Dir: src}

	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	checker := mocks.NewMockCheckoutChecker(ctrl)
	checker.EXPECT().Check(src).Return(nil)
	runner.EXPECT().Run(gomock.Any(), build).DoAndReturn(func(context.Context, ports.Command) error {
		return os.WriteFile(out, []byte("ext2"), 0o600)
	})

	b := distro.NewBuilder(distro.Recipe{
		Name:   "br",
		Image:  img,
		Source: src,
		Config: cfgPath,
		Build:  []ports.Command{build},
		Output: out,
	}, runner, nil, checker, t.TempDir())

	require.NoError(t, b.BuildBaseImage(context.Background()))

	got, err := os.ReadFile(img)
	require.NoError(t, err)
	assert.Equal(t, "ext2", string(got))

	installed, err := os.ReadFile(filepath.Join(src, ".config"))
	require.NoError(t, err)
	assert.Equal(t, "BR2_riscv=y\n", string(installed))
	assert.Equal(t, []string{cfgPath}, b.FileDeps())
}

func TestBuilder_BuildBaseImage_MissingCheckout(t *testing.T) {
	ctrl := gomock.NewController(t)
	checker := mocks.NewMockCheckoutChecker(ctrl)
	checker.EXPECT().Check("buildroot").Return(domain.ErrMissingExternalCheckout)

	b := distro.NewBuilder(distro.Recipe{
		Name:   "br",
		Image:  "rootfs.img",
		Source: "buildroot",
		Build:  []ports.Command{{Name: "make"}},
	}, mocks.NewMockCommandRunner(ctrl), nil, checker, t.TempDir())

	require.ErrorIs(t, b.BuildBaseImage(context.Background()), domain.ErrMissingExternalCheckout)
}

func TestBuilder_UpToDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	status := mocks.NewMockStalenessProvider(ctrl)
	status.EXPECT().RepoStatus(gomock.Any(), "buildroot").Return("rev1", nil)

	b := distro.NewBuilder(distro.Recipe{Name: "br", Source: "buildroot"}, nil, status, nil, t.TempDir())

	signals := b.UpToDate()
	require.Len(t, signals, 1)
	assert.Equal(t, "br-source", signals[0].Name)

	v, err := signals[0].Value(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rev1", v)

	bare := distro.NewBuilder(distro.Recipe{Name: "bare"}, nil, nil, nil, t.TempDir())
	assert.Empty(t, bare.UpToDate())
	assert.Empty(t, bare.FileDeps())
	require.NoError(t, bare.BuildBaseImage(context.Background()))
}

func TestRegistry(t *testing.T) {
	p := domain.DefaultPlatform("/work")
	var builders []ports.DistroBuilder
	for _, r := range distro.DefaultRecipes(p) {
		builders = append(builders, distro.NewBuilder(r, nil, nil, nil, t.TempDir()))
	}
	reg := distro.NewRegistry(builders...)

	br, err := reg.Get("br")
	require.NoError(t, err)
	assert.Equal(t, "/work/boards/default/distros/br/rootfs.img", br.BaseImage())

	_, err = reg.Get("gentoo")
	require.ErrorContains(t, err, "unknown distro")

	names := make([]string, 0, 3)
	for _, b := range reg.All() {
		names = append(names, b.Name())
	}
	assert.Equal(t, []string{"bare", "br", "fedora"}, names)
}
