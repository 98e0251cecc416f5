package artifact_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/marshal/internal/adapters/artifact"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/marshal/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	platform domain.Platform
	cfg      *domain.WorkloadConfig

	runner  *mocks.MockCommandRunner
	checker *mocks.MockCheckoutChecker
	mounter *mocks.MockImageMounter
	archive *mocks.MockArchiveComposer
	kconfig *mocks.MockKernelConfigComposer
	builder *artifact.Builder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	p := domain.DefaultPlatform(root)
	p.Jobs = 8

	ctrl := gomock.NewController(t)
	f := &fixture{
		platform: p,
		cfg: &domain.WorkloadConfig{
			Name:        "w",
			Bin:         filepath.Join(root, "images", "w-bin"),
			Img:         filepath.Join(root, "images", "w.img"),
			LinuxConfig: filepath.Join(root, "w", "linux-config"),
			LinuxSrc:    filepath.Join(root, "linux"),
		},
		runner:  mocks.NewMockCommandRunner(ctrl),
		checker: mocks.NewMockCheckoutChecker(ctrl),
		mounter: mocks.NewMockImageMounter(ctrl),
		archive: mocks.NewMockArchiveComposer(ctrl),
		kconfig: mocks.NewMockKernelConfigComposer(ctrl),
	}
	f.builder = artifact.NewBuilder(f.runner, f.checker, f.mounter, f.archive, f.kconfig, p)
	return f
}

// expectKernel expects one kernel build composing srcs and returns nothing.
func (f *fixture) expectKernel(t *testing.T, srcs []string) {
	t.Helper()
	build := f.platform.BootloaderBuildDir()
	stale := filepath.Join(build, "stale.o")
	require.NoError(t, os.MkdirAll(build, 0o750))
	require.NoError(t, os.WriteFile(stale, nil, 0o600))

	f.checker.EXPECT().Check(f.cfg.LinuxSrc).Return(nil)
	f.checker.EXPECT().Check(f.platform.BootloaderDir).Return(nil)

	var frag string
	gomock.InOrder(
		f.kconfig.EXPECT().
			BuildDrivers(gomock.Any(), []string{f.cfg.LinuxConfig}, f.cfg.LinuxSrc).
			Return(f.platform.DriversTree(), nil),
		f.archive.EXPECT().
			Compose(gomock.Any(), srcs, gomock.Any(), true).
			DoAndReturn(func(_ context.Context, _ []string, scratch string, _ bool) (string, error) {
				return filepath.Join(scratch, "initramfs.cpio"), nil
			}),
		f.kconfig.EXPECT().
			WriteInitramfsFragment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(archive, dst string) error {
				assert.Equal(t, filepath.Dir(archive), filepath.Dir(dst))
				frag = dst
				return nil
			}),
		f.kconfig.EXPECT().
			GenerateConfig(gomock.Any(), gomock.Any(), f.cfg.LinuxSrc).
			DoAndReturn(func(_ context.Context, kfrags []string, _ string) error {
				assert.Equal(t, []string{f.cfg.LinuxConfig, frag}, kfrags)
				return nil
			}),
		f.runner.EXPECT().Run(gomock.Any(), ports.Command{
			Name: "make",
			Args: []string{"ARCH=riscv", "CROSS_COMPILE=riscv64-unknown-linux-gnu-", "vmlinux", "-j8"},
			Dir:  f.cfg.LinuxSrc,
		}),
		f.runner.EXPECT().Run(gomock.Any(), ports.Command{
			Name: "../configure",
			Args: []string{"--host=riscv64-unknown-elf", "--with-payload=" + filepath.Join(f.cfg.LinuxSrc, "vmlinux")},
			Dir:  build,
		}).DoAndReturn(func(context.Context, ports.Command) error {
			_, err := os.Stat(stale)
			assert.ErrorIs(t, err, os.ErrNotExist)
			return nil
		}),
		f.runner.EXPECT().
			Run(gomock.Any(), ports.Command{Name: "make", Args: []string{"-j8"}, Dir: build}).
			DoAndReturn(func(context.Context, ports.Command) error {
				return os.WriteFile(filepath.Join(build, artifact.BootloaderBinary), []byte("bbl"), 0o600)
			}),
	)
}

func TestBuilder_BuildBin_Disk(t *testing.T) {
	f := newFixture(t)
	f.expectKernel(t, []string{f.platform.DriversTree(), f.platform.SupportTree(false)})

	require.NoError(t, f.builder.BuildBin(context.Background(), f.cfg, false))

	got, err := os.ReadFile(f.cfg.Bin)
	require.NoError(t, err)
	assert.Equal(t, "bbl", string(got))
}

func TestBuilder_BuildBin_Nodisk(t *testing.T) {
	f := newFixture(t)
	f.expectKernel(t, []string{f.platform.DriversTree(), f.platform.SupportTree(true), "/mnt/ro"})
	f.mounter.EXPECT().
		WithMount(gomock.Any(), f.cfg.Img, true, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ bool, fn func(string) error) error {
			return fn("/mnt/ro")
		})

	require.NoError(t, f.builder.BuildBin(context.Background(), f.cfg, true))

	got, err := os.ReadFile(f.cfg.NodiskBin())
	require.NoError(t, err)
	assert.Equal(t, "bbl", string(got))

	_, err = os.Stat(f.cfg.Bin)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuilder_BuildBin_Prebuilt(t *testing.T) {
	f := newFixture(t)
	f.cfg.LinuxConfig = ""

	require.NoError(t, f.builder.BuildBin(context.Background(), f.cfg, false))
}

func TestBuilder_BuildBin_MissingCheckout(t *testing.T) {
	f := newFixture(t)
	f.checker.EXPECT().Check(f.cfg.LinuxSrc).Return(nil)
	f.checker.EXPECT().Check(f.platform.BootloaderDir).Return(domain.ErrMissingExternalCheckout)

	err := f.builder.BuildBin(context.Background(), f.cfg, false)
	require.ErrorContains(t, err, "required source checkout is missing")

	_, statErr := os.Stat(f.cfg.Bin)
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestBuilder_BuildBin_DriverFailure(t *testing.T) {
	f := newFixture(t)
	f.checker.EXPECT().Check(gomock.Any()).Return(nil).Times(2)
	f.kconfig.EXPECT().
		BuildDrivers(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", domain.ErrExternalToolFailure)

	err := f.builder.BuildBin(context.Background(), f.cfg, false)
	require.ErrorContains(t, err, "external command failed")
}

func TestBuilder_BuildSupport(t *testing.T) {
	f := newFixture(t)
	p := f.platform
	require.NoError(t, os.MkdirAll(filepath.Dir(p.BusyboxConfig), 0o750))
	require.NoError(t, os.WriteFile(p.BusyboxConfig, []byte("CONFIG_STATIC=y\n"), 0o600))

	f.checker.EXPECT().Check(p.BusyboxDir).Return(nil)
	f.runner.EXPECT().
		Run(gomock.Any(), ports.Command{Name: "make", Args: []string{"-j8"}, Dir: p.BusyboxDir}).
		DoAndReturn(func(context.Context, ports.Command) error {
			return os.WriteFile(filepath.Join(p.BusyboxDir, "busybox"), []byte("bb"), 0o700)
		})

	require.NoError(t, f.builder.BuildSupport(context.Background()))

	cfg, err := os.ReadFile(filepath.Join(p.BusyboxDir, ".config"))
	require.NoError(t, err)
	assert.Equal(t, "CONFIG_STATIC=y\n", string(cfg))

	bin, err := os.ReadFile(p.BusyboxTarget())
	require.NoError(t, err)
	assert.Equal(t, "bb", string(bin))
}

func TestBuilder_BuildSupport_MissingCheckout(t *testing.T) {
	f := newFixture(t)
	f.checker.EXPECT().Check(f.platform.BusyboxDir).Return(domain.ErrMissingExternalCheckout)

	require.ErrorIs(t, f.builder.BuildSupport(context.Background()), domain.ErrMissingExternalCheckout)
}
