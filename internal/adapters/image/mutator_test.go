package image_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/marshal/internal/adapters/image"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/marshal/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const mountRoot = "/mnt/img"

// journal records the image operations in the order they happen.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, s)
}

func (j *journal) runner(ctrl *gomock.Controller) *mocks.MockCommandRunner {
	r := mocks.NewMockCommandRunner(ctrl)
	r.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, cmd ports.Command) error {
		j.add(strings.Join(append([]string{cmd.Name}, cmd.Args...), " "))
		return nil
	}).AnyTimes()
	return r
}

func (j *journal) mounter(ctrl *gomock.Controller) *mocks.MockImageMounter {
	m := mocks.NewMockImageMounter(ctrl)
	m.EXPECT().WithMount(gomock.Any(), gomock.Any(), false, gomock.Any()).
		DoAndReturn(func(_ context.Context, img string, _ bool, fn func(string) error) error {
			j.add("mount " + filepath.Base(img))
			defer j.add("umount " + filepath.Base(img))
			return fn(mountRoot)
		}).AnyTimes()
	return m
}

// overlayGen returns a generator producing overlays with a single named entry.
func overlayGen(t *testing.T, ctrl *gomock.Controller, j *journal) (*mocks.MockBootOverlayGenerator, *[]string) {
	t.Helper()
	gen := mocks.NewMockBootOverlayGenerator(ctrl)
	var dirs []string
	gen.EXPECT().GenerateBootScriptOverlay(gomock.Any(), gomock.Any()).
		DoAndReturn(func(script string, args []string) (string, error) {
			dir := t.TempDir()
			name := "clear"
			if script != "" {
				name = "run"
			}
			j.add("generate " + name + " " + strings.Join(args, ","))
			require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o750))
			dirs = append(dirs, dir)
			return dir, nil
		}).AnyTimes()
	return gen, &dirs
}

func TestMutator_Materialize(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "base.img")
	img := filepath.Join(root, "w.img")
	require.NoError(t, os.WriteFile(base, []byte("v1"), 0o600))

	m := image.NewMutator(nil, nil, root, false)
	require.NoError(t, m.Materialize(img, base))

	require.NoError(t, os.WriteFile(base, []byte("v2"), 0o600))
	require.NoError(t, m.Materialize(img, base))

	got, err := os.ReadFile(img)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))
}

func TestMutator_ApplyFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	j := &journal{}
	m := image.NewMutator(j.mounter(ctrl), j.runner(ctrl), t.TempDir(), true)

	err := m.ApplyFiles(context.Background(), "w.img", []domain.FileSpec{
		{Src: "/src/app", Dst: "/usr/bin/app"},
		{Src: "/src/etc", Dst: "/"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"mount w.img",
		"sudo cp -a /src/app /mnt/img/usr/bin/app",
		"sudo cp -a /src/etc /mnt/img",
		"umount w.img",
	}, j.entries)
}

func TestMutator_ApplyFiles_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := image.NewMutator(mocks.NewMockImageMounter(ctrl), mocks.NewMockCommandRunner(ctrl), t.TempDir(), false)
	require.NoError(t, m.ApplyFiles(context.Background(), "w.img", nil))
}

func TestMutator_ApplyOverlay(t *testing.T) {
	overlay := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(overlay, "etc"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(overlay, "motd"), nil, 0o600))

	ctrl := gomock.NewController(t)
	j := &journal{}
	m := image.NewMutator(j.mounter(ctrl), j.runner(ctrl), t.TempDir(), false)

	require.NoError(t, m.ApplyOverlay(context.Background(), "w.img", overlay))
	assert.Equal(t, []string{
		"mount w.img",
		"cp -a " + filepath.Join(overlay, "etc") + " /mnt/img",
		"cp -a " + filepath.Join(overlay, "motd") + " /mnt/img",
		"umount w.img",
	}, j.entries)
}

func TestMutator_RunGuestInit(t *testing.T) {
	script := filepath.Join(t.TempDir(), "init.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"), 0o600))

	ctrl := gomock.NewController(t)
	j := &journal{}
	gen, dirs := overlayGen(t, ctrl, j)
	m := image.NewMutator(j.mounter(ctrl), j.runner(ctrl), t.TempDir(), false)

	state, err := m.RunGuestInit(context.Background(), "w.img", gen,
		domain.RunSpec{Path: script, Args: []string{"a", "b"}},
		func(context.Context) error {
			j.add("boot")
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, domain.BootCleared, state)

	require.Len(t, *dirs, 2)
	assert.Equal(t, []string{
		"generate run a,b",
		"mount w.img",
		"cp -a " + filepath.Join((*dirs)[0], "run") + " /mnt/img",
		"umount w.img",
		"boot",
		"generate clear ",
		"mount w.img",
		"cp -a " + filepath.Join((*dirs)[1], "clear") + " /mnt/img",
		"umount w.img",
	}, j.entries)

	for _, d := range *dirs {
		_, err := os.Stat(d)
		require.ErrorIs(t, err, os.ErrNotExist)
	}
}

func TestMutator_RunGuestInit_BootFailureStillClears(t *testing.T) {
	script := filepath.Join(t.TempDir(), "init.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"), 0o600))

	ctrl := gomock.NewController(t)
	j := &journal{}
	gen, _ := overlayGen(t, ctrl, j)
	m := image.NewMutator(j.mounter(ctrl), j.runner(ctrl), t.TempDir(), false)

	bootErr := errors.New("guest panicked")
	state, err := m.RunGuestInit(context.Background(), "w.img", gen, domain.RunSpec{Path: script},
		func(context.Context) error { return bootErr })

	require.ErrorIs(t, err, bootErr)
	assert.Equal(t, domain.BootCleared, state)
	assert.Contains(t, j.entries, "generate clear ")
	assert.Equal(t, "umount w.img", j.entries[len(j.entries)-1])
}

func TestMutator_RunGuestInit_MissingScript(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockBootOverlayGenerator(ctrl)
	m := image.NewMutator(mocks.NewMockImageMounter(ctrl), mocks.NewMockCommandRunner(ctrl), t.TempDir(), false)

	booted := false
	state, err := m.RunGuestInit(context.Background(), "w.img", gen,
		domain.RunSpec{Path: filepath.Join(t.TempDir(), "absent.sh")},
		func(context.Context) error {
			booted = true
			return nil
		})

	require.ErrorContains(t, err, "script not found")
	assert.Equal(t, domain.BootIdle, state)
	assert.False(t, booted)
}

func TestMutator_InstallRunScript_Command(t *testing.T) {
	genDir := t.TempDir()

	ctrl := gomock.NewController(t)
	j := &journal{}
	m := image.NewMutator(j.mounter(ctrl), j.runner(ctrl), genDir, false)

	command := "cd /root && ./bench --iterations 3 && poweroff"
	script := m.ScriptPath(command)

	gen := mocks.NewMockBootOverlayGenerator(ctrl)
	gen.EXPECT().GenerateBootScriptOverlay(script, []string(nil)).Return(t.TempDir(), nil)

	require.NoError(t, m.InstallRunScript(context.Background(), "w.img", gen, domain.RunSpec{Command: command}))

	body, err := os.ReadFile(script)
	require.NoError(t, err)
	goldie.New(t).Assert(t, "command_script", body)

	info, err := os.Stat(script)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.ScriptPerm), info.Mode().Perm())
}

func TestMutator_InstallRunScript_MissingPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := image.NewMutator(mocks.NewMockImageMounter(ctrl), mocks.NewMockCommandRunner(ctrl), t.TempDir(), false)

	err := m.InstallRunScript(context.Background(), "w.img", mocks.NewMockBootOverlayGenerator(ctrl),
		domain.RunSpec{Path: "/no/such/run.sh"})
	require.ErrorContains(t, err, "script not found")
}
