package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/marshal/internal/adapters/cas"
	"go.trai.ch/marshal/internal/adapters/fs"
	"go.trai.ch/marshal/internal/adapters/git"
	"go.trai.ch/marshal/internal/adapters/telemetry"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/marshal/internal/core/ports/mocks"
	"go.trai.ch/marshal/internal/engine/scheduler"
	"go.trai.ch/marshal/internal/engine/session"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	root      string
	platform  domain.Platform
	artifacts *mocks.MockArtifactBuilder
	images    *mocks.MockImageMutator
	distros   *mocks.MockDistroRegistry
	launcher  *mocks.MockLauncher
	status    *mocks.MockStalenessProvider
	runner    *mocks.MockCommandRunner
	session   *session.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	root := t.TempDir()

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	store, err := cas.NewStore(filepath.Join(root, ".marshal", "store"))
	require.NoError(t, err)

	f := &fixture{
		root:      root,
		platform:  domain.DefaultPlatform(root),
		artifacts: mocks.NewMockArtifactBuilder(ctrl),
		images:    mocks.NewMockImageMutator(ctrl),
		distros:   mocks.NewMockDistroRegistry(ctrl),
		launcher:  mocks.NewMockLauncher(ctrl),
		status:    mocks.NewMockStalenessProvider(ctrl),
		runner:    mocks.NewMockCommandRunner(ctrl),
	}
	f.status.EXPECT().RepoStatus(gomock.Any(), gomock.Any()).Return("rev1", nil).AnyTimes()
	f.status.EXPECT().ToolVersions(gomock.Any()).Return("gcc 12.2.0", nil).AnyTimes()

	f.session = session.New(session.Services{
		Scheduler: scheduler.NewScheduler(fs.NewHasher(), store, telemetry.NewNoOp(), log),
		Artifacts: f.artifacts,
		Images:    f.images,
		Distros:   f.distros,
		Launcher:  f.launcher,
		Status:    f.status,
		Runner:    f.runner,
		Walker:    fs.NewWalker(),
		Logger:    log,
		Platform:  f.platform,
	})
	return f
}

func (f *fixture) path(t *testing.T, rel, content string) string {
	t.Helper()
	p := filepath.Join(f.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func writeTarget(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(filepath.Base(path)), 0o600)
}

func TestSession_RegisterConfig_Idempotent(t *testing.T) {
	f := newFixture(t)
	hostInit := f.path(t, "w/host-init.sh", "#!/bin/sh\n")

	a := &domain.WorkloadConfig{Name: "a", Bin: filepath.Join(f.root, "a-bin"), HostInit: hostInit}
	b := &domain.WorkloadConfig{Name: "b", Bin: filepath.Join(f.root, "b-bin"), HostInit: hostInit}

	require.NoError(t, f.session.RegisterConfig(a))
	require.NoError(t, f.session.RegisterConfig(a))
	require.NoError(t, f.session.RegisterConfig(b))

	g := f.session.Graph()
	assert.Equal(t, 1, g.TaskCount(hostInit))
	assert.Equal(t, 1, g.TaskCount(a.Bin))
	assert.Equal(t, 3, g.Len())

	bin, ok := g.GetTask(b.Bin)
	require.True(t, ok)
	assert.Equal(t, []string{hostInit}, bin.TaskDeps)
}

func TestSession_RegisterConfig_Wiring(t *testing.T) {
	f := newFixture(t)
	linuxConfig := f.path(t, "w/linux-config", "CONFIG_X=y\n")
	initScript := f.path(t, "w/init.sh", "#!/bin/sh\n")
	f.path(t, "w/overlay/etc/motd", "hi")
	f.path(t, "w/overlay/usr/bin/app", "elf")
	require.NoError(t, os.Symlink("app", filepath.Join(f.root, "w/overlay/usr/bin/link")))

	base := &domain.WorkloadConfig{Name: "base", Img: filepath.Join(f.root, "images/base.img"), BaseImg: "/br.img"}
	cfg := &domain.WorkloadConfig{
		Name:        "w",
		Bin:         filepath.Join(f.root, "images/w-bin"),
		Img:         filepath.Join(f.root, "images/w.img"),
		Nodisk:      true,
		LinuxConfig: linuxConfig,
		LinuxSrc:    filepath.Join(f.root, "riscv-linux"),
		BaseImg:     base.Img,
		Files:       []domain.FileSpec{{Src: filepath.Join(f.root, "w/overlay"), Dst: "/"}},
		GuestInit:   &domain.RunSpec{Path: initScript},
		Run:         &domain.RunSpec{Command: "poweroff"},
	}
	f.distros.EXPECT().Get(session.DefaultDistro).Return(mocks.NewMockDistroBuilder(gomock.NewController(t)), nil)

	require.NoError(t, f.session.RegisterConfig(base))
	require.NoError(t, f.session.RegisterConfig(cfg))
	g := f.session.Graph()

	bin, ok := g.GetTask(cfg.Bin)
	require.True(t, ok)
	assert.Equal(t, []string{linuxConfig}, bin.FileDeps)
	assert.Equal(t, []string{domain.SupportTaskName, base.Img}, bin.TaskDeps)
	require.Len(t, bin.UpToDate, 1)

	nodisk, ok := g.GetTask(cfg.NodiskBin())
	require.True(t, ok)
	assert.Equal(t, []string{linuxConfig, cfg.Img}, nodisk.FileDeps)
	assert.Equal(t, []string{domain.SupportTaskName, base.Img, cfg.Img}, nodisk.TaskDeps)

	img, ok := g.GetTask(cfg.Img)
	require.True(t, ok)
	assert.Equal(t, []string{base.Img, cfg.Bin}, img.TaskDeps)
	assert.ElementsMatch(t, []string{
		base.Img,
		filepath.Join(f.root, "w/overlay/etc/motd"),
		filepath.Join(f.root, "w/overlay/usr/bin/app"),
		initScript,
	}, img.FileDeps)
	assert.Len(t, img.Checks, 1)

	// An image whose base is not built by any task only tracks the file.
	baseTask, ok := g.GetTask(base.Img)
	require.True(t, ok)
	assert.Empty(t, baseTask.TaskDeps)
	assert.Equal(t, []string{"/br.img"}, baseTask.FileDeps)
}

func TestSession_RegisterConfig_Invalid(t *testing.T) {
	f := newFixture(t)
	err := f.session.RegisterConfig(&domain.WorkloadConfig{Name: "w", Nodisk: true})
	require.ErrorContains(t, err, "nodisk requires a binary output")
	assert.Equal(t, 0, f.session.Graph().Len())
}

func TestSession_BuildWorkload_ImageFromParent(t *testing.T) {
	f := newFixture(t)
	app := f.path(t, "child/app", "elf")
	brImg := filepath.Join(f.root, "boards/default/distros/br/rootfs.img")

	br := mocks.NewMockDistroBuilder(gomock.NewController(t))
	br.EXPECT().Name().Return("br").AnyTimes()
	br.EXPECT().BaseImage().Return(brImg).AnyTimes()
	br.EXPECT().FileDeps().Return(nil).AnyTimes()
	br.EXPECT().UpToDate().Return(nil).AnyTimes()
	br.EXPECT().BuildBaseImage(gomock.Any()).DoAndReturn(func(context.Context) error {
		return writeTarget(brImg)
	}).Times(1)
	f.distros.EXPECT().All().Return([]ports.DistroBuilder{br}).AnyTimes()
	f.distros.EXPECT().Get("br").Return(br, nil).AnyTimes()

	base := &domain.WorkloadConfig{Name: "base", Distro: "br", Img: filepath.Join(f.root, "images/base.img")}
	child := &domain.WorkloadConfig{
		Name:    "child",
		Distro:  "br",
		BaseImg: base.Img,
		Img:     filepath.Join(f.root, "images/child.img"),
		Files:   []domain.FileSpec{{Src: app, Dst: "/usr/bin/app"}},
	}
	configs := map[string]*domain.WorkloadConfig{"base": base, "child": child}

	var materialized []string
	f.images.EXPECT().Materialize(gomock.Any(), gomock.Any()).DoAndReturn(func(img, baseImg string) error {
		materialized = append(materialized, filepath.Base(baseImg)+"->"+filepath.Base(img))
		return writeTarget(img)
	}).Times(2)
	f.images.EXPECT().ApplyFiles(gomock.Any(), child.Img, child.Files).Return(nil).Times(1)

	report, err := f.session.BuildWorkload(context.Background(), "child", configs, session.Options{Img: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"rootfs.img->base.img", "base.img->child.img"}, materialized)
	assert.ElementsMatch(t, []string{brImg, base.Img, child.Img}, report.Executed())

	// Nothing changed, so the rerun executes nothing.
	report, err = f.session.BuildWorkload(context.Background(), "child", configs, session.Options{Img: true})
	require.NoError(t, err)
	assert.Empty(t, report.Executed())
}

func TestSession_BuildWorkload_FailureBlocksImage(t *testing.T) {
	f := newFixture(t)
	initScript := f.path(t, "w/init.sh", "#!/bin/sh\n")
	cfg := &domain.WorkloadConfig{
		Name:        "w",
		Bin:         filepath.Join(f.root, "images/w-bin"),
		Img:         filepath.Join(f.root, "images/w.img"),
		LinuxConfig: f.path(t, "w/linux-config", "CONFIG_X=y\n"),
		LinuxSrc:    filepath.Join(f.root, "riscv-linux"),
		BaseImg:     f.path(t, "base.img", "fs"),
		GuestInit:   &domain.RunSpec{Path: initScript},
	}
	f.distros.EXPECT().All().Return(nil)
	f.distros.EXPECT().Get(session.DefaultDistro).Return(mocks.NewMockDistroBuilder(gomock.NewController(t)), nil)
	f.artifacts.EXPECT().BuildSupport(gomock.Any()).DoAndReturn(func(context.Context) error {
		return writeTarget(f.platform.BusyboxTarget())
	})
	f.artifacts.EXPECT().BuildBin(gomock.Any(), cfg, false).Return(domain.ErrExternalToolFailure)

	report, err := f.session.BuildWorkload(context.Background(), "w", map[string]*domain.WorkloadConfig{"w": cfg}, session.Options{})
	require.ErrorContains(t, err, "build execution failed")
	require.ErrorContains(t, err, "blocked by failed dependency")

	assert.Equal(t, []string{cfg.Bin}, report.Failed())
	assert.Equal(t, []string{cfg.Img}, report.Blocked())
	res, _ := report.Result(cfg.Img)
	assert.Equal(t, cfg.Bin, res.BlockedBy)
	require.ErrorIs(t, res.Err, domain.ErrTaskBlocked)

	bin, _ := report.Result(cfg.Bin)
	require.ErrorIs(t, bin.Err, domain.ErrExternalToolFailure)
	require.ErrorIs(t, err, domain.ErrExternalToolFailure)

	support, _ := report.Result(domain.SupportTaskName)
	assert.Equal(t, domain.OutcomeSucceeded, support.Outcome)
}

func TestSession_BuildWorkload_MissingCheckoutIsMatchable(t *testing.T) {
	f := newFixture(t)
	cfg := &domain.WorkloadConfig{
		Name:        "w",
		Bin:         filepath.Join(f.root, "images/w-bin"),
		LinuxConfig: f.path(t, "w/linux-config", "CONFIG_X=y\n"),
		LinuxSrc:    filepath.Join(f.root, "riscv-linux"),
	}
	f.distros.EXPECT().All().Return(nil)
	// The busybox submodule was never initialized.
	require.NoError(t, os.MkdirAll(f.platform.BusyboxDir, 0o750))
	checkouts := git.NewStatus(nil, f.platform)
	f.artifacts.EXPECT().BuildSupport(gomock.Any()).DoAndReturn(func(context.Context) error {
		return checkouts.Check(f.platform.BusyboxDir)
	})

	report, err := f.session.BuildWorkload(context.Background(), "w", map[string]*domain.WorkloadConfig{"w": cfg}, session.Options{Bin: true})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	require.ErrorIs(t, err, domain.ErrMissingExternalCheckout)

	support, _ := report.Result(domain.SupportTaskName)
	assert.Equal(t, domain.OutcomeFailed, support.Outcome)
	require.ErrorIs(t, support.Err, domain.ErrMissingExternalCheckout)
	require.ErrorIs(t, support.Err, domain.ErrTaskExecutionFailed)

	bin, _ := report.Result(cfg.Bin)
	assert.Equal(t, domain.OutcomeBlocked, bin.Outcome)
	require.ErrorIs(t, bin.Err, domain.ErrTaskBlocked)
}

func TestSession_Build_SharedHostInitRunsOnce(t *testing.T) {
	f := newFixture(t)
	hostInit := f.path(t, "w/gen-keys.sh", "#!/bin/sh\n")
	server := &domain.WorkloadConfig{Name: "server", Bin: filepath.Join(f.root, "images/server-bin"), HostInit: hostInit}
	client := &domain.WorkloadConfig{Name: "client", Bin: filepath.Join(f.root, "images/client-bin"), HostInit: hostInit}
	require.NoError(t, f.session.RegisterConfig(server))
	require.NoError(t, f.session.RegisterConfig(client))

	f.runner.EXPECT().Run(gomock.Any(), ports.Command{Name: hostInit}).Return(nil).Times(1)
	f.artifacts.EXPECT().BuildBin(gomock.Any(), gomock.Any(), false).DoAndReturn(
		func(_ context.Context, cfg *domain.WorkloadConfig, _ bool) error {
			return writeTarget(cfg.Bin)
		}).Times(2)

	report, err := f.session.Build(context.Background(), []string{server.Bin, client.Bin, hostInit}, 4)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{hostInit, server.Bin, client.Bin}, report.Executed())
}

func TestSession_Build_CommandGuestInit(t *testing.T) {
	f := newFixture(t)
	cfg := &domain.WorkloadConfig{
		Name:      "w",
		Bin:       f.path(t, "prebuilt/bbl", "bbl"),
		Img:       filepath.Join(f.root, "images/w.img"),
		BaseImg:   f.path(t, "base.img", "fs"),
		GuestInit: &domain.RunSpec{Command: "apk add openssh"},
	}
	gen := mocks.NewMockDistroBuilder(gomock.NewController(t))
	f.distros.EXPECT().Get(session.DefaultDistro).Return(gen, nil)
	require.NoError(t, f.session.RegisterConfig(cfg))

	img, ok := f.session.Graph().GetTask(cfg.Img)
	require.True(t, ok)
	assert.Equal(t, []string{cfg.BaseImg}, img.FileDeps)
	assert.Equal(t, []string{cfg.Bin}, img.TaskDeps)
	assert.Empty(t, img.Checks)

	f.artifacts.EXPECT().BuildBin(gomock.Any(), cfg, false).Return(nil)
	f.images.EXPECT().Materialize(cfg.Img, cfg.BaseImg).DoAndReturn(func(img, _ string) error {
		return writeTarget(img)
	})
	f.images.EXPECT().
		RunGuestInit(gomock.Any(), cfg.Img, gen, *cfg.GuestInit, gomock.Any()).
		Return(domain.BootCleared, nil)

	report, err := f.session.Build(context.Background(), []string{cfg.Img}, 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{cfg.Bin, cfg.Img}, report.Executed())
}

func TestSession_Build_MissingGuestInitScript(t *testing.T) {
	f := newFixture(t)
	cfg := &domain.WorkloadConfig{
		Name:      "w",
		Bin:       f.path(t, "prebuilt/bbl", "bbl"),
		Img:       filepath.Join(f.root, "images/w.img"),
		BaseImg:   f.path(t, "base.img", "fs"),
		GuestInit: &domain.RunSpec{Path: filepath.Join(f.root, "w/missing.sh")},
	}
	f.distros.EXPECT().Get(session.DefaultDistro).Return(mocks.NewMockDistroBuilder(gomock.NewController(t)), nil)
	f.artifacts.EXPECT().BuildBin(gomock.Any(), cfg, false).Return(nil).AnyTimes()
	require.NoError(t, f.session.RegisterConfig(cfg))

	report, err := f.session.Build(context.Background(), []string{cfg.Img}, 1)
	require.ErrorContains(t, err, "script not found")
	require.ErrorIs(t, err, domain.ErrMissingScript)

	res, _ := report.Result(cfg.Img)
	assert.Equal(t, domain.OutcomeFailed, res.Outcome)
	_, statErr := os.Stat(cfg.Img)
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestSession_Build_GuestInitBootsDiskBinary(t *testing.T) {
	f := newFixture(t)
	initScript := f.path(t, "w/init.sh", "#!/bin/sh\n")
	cfg := &domain.WorkloadConfig{
		Name:      "w",
		Bin:       f.path(t, "prebuilt/bbl", "bbl"),
		Img:       filepath.Join(f.root, "images/w.img"),
		Nodisk:    true,
		BaseImg:   f.path(t, "base.img", "fs"),
		GuestInit: &domain.RunSpec{Path: initScript, Args: []string{"--fast"}},
	}
	gen := mocks.NewMockDistroBuilder(gomock.NewController(t))
	f.distros.EXPECT().Get(session.DefaultDistro).Return(gen, nil)
	require.NoError(t, f.session.RegisterConfig(cfg))

	f.artifacts.EXPECT().BuildBin(gomock.Any(), cfg, false).Return(nil)
	f.images.EXPECT().Materialize(cfg.Img, cfg.BaseImg).DoAndReturn(func(img, _ string) error {
		return writeTarget(img)
	})
	f.images.EXPECT().
		RunGuestInit(gomock.Any(), cfg.Img, gen, *cfg.GuestInit, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ports.BootOverlayGenerator, _ domain.RunSpec, boot func(context.Context) error) (domain.BootState, error) {
			return domain.BootCleared, boot(ctx)
		})
	f.launcher.EXPECT().Boot(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, booted *domain.WorkloadConfig) error {
		assert.False(t, booted.Nodisk)
		assert.Equal(t, cfg.Bin, booted.Bin)
		assert.Equal(t, cfg.Img, booted.Img)
		return nil
	})

	report, err := f.session.Build(context.Background(), session.Targets(cfg, session.Options{Img: true}), 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{cfg.Bin, cfg.Img}, report.Executed())
	assert.True(t, cfg.Nodisk, "the config itself is not modified")
}

func TestSession_BuildWorkload_Unknown(t *testing.T) {
	f := newFixture(t)
	f.distros.EXPECT().All().Return(nil)

	_, err := f.session.BuildWorkload(context.Background(), "nope", map[string]*domain.WorkloadConfig{}, session.Options{})
	require.ErrorContains(t, err, "workload not found")
}

func TestTargets(t *testing.T) {
	cfg := &domain.WorkloadConfig{
		Name:   "net",
		Bin:    "net-bin",
		Img:    "net.img",
		Nodisk: true,
		Jobs: map[string]*domain.WorkloadConfig{
			"server": {Name: "net-server", Bin: "net-bin", Img: "net-server.img", HostInit: "gen-keys.sh"},
			"client": {Name: "net-client", Bin: "client-bin", Img: "net-client.img", Nodisk: true},
		},
	}

	assert.Equal(t, []string{
		"net-bin-nodisk",
		"client-bin", "client-bin-nodisk",
		"gen-keys.sh", "net-bin",
		"net.img", "net-client.img", "net-server.img",
	}, session.Targets(cfg, session.Options{}))

	assert.Equal(t, []string{"gen-keys.sh", "net.img", "net-client.img", "net-server.img"},
		session.Targets(cfg, session.Options{Img: true}))

	assert.Equal(t, []string{"net-bin-nodisk", "client-bin", "client-bin-nodisk", "gen-keys.sh", "net-bin"},
		session.Targets(cfg, session.Options{Bin: true}))
}

func TestSession_Inputs(t *testing.T) {
	f := newFixture(t)
	linuxConfig := f.path(t, "w/linux-config", "CONFIG_X=y\n")
	app := f.path(t, "w/app", "elf")

	base := &domain.WorkloadConfig{Name: "base", Img: filepath.Join(f.root, "images/base.img"), BaseImg: f.path(t, "br.img", "fs")}
	cfg := &domain.WorkloadConfig{
		Name:        "w",
		Bin:         filepath.Join(f.root, "images/w-bin"),
		Img:         filepath.Join(f.root, "images/w.img"),
		LinuxConfig: linuxConfig,
		BaseImg:     base.Img,
		Files:       []domain.FileSpec{{Src: app, Dst: "/bin/app"}},
	}
	f.distros.EXPECT().All().Return(nil)
	require.NoError(t, f.session.RegisterAll(map[string]*domain.WorkloadConfig{"base": base, "w": cfg}))

	// base.img is built by a task, so only its own base image is an input.
	inputs, err := f.session.Inputs([]string{cfg.Img})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{base.BaseImg, app}, inputs)

	inputs, err = f.session.Inputs([]string{cfg.Bin})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{base.BaseImg, linuxConfig}, inputs)

	_, err = f.session.Inputs([]string{"nope"})
	require.ErrorContains(t, err, "task not found")
}
