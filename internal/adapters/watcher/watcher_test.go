package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/marshal/internal/adapters/watcher"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/marshal/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestDirs(t *testing.T) {
	root := t.TempDir()
	overlay := filepath.Join(root, "overlay")
	require.NoError(t, os.MkdirAll(filepath.Join(overlay, "etc"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "linux-config"), nil, 0o600))

	dirs := watcher.Dirs([]string{
		filepath.Join(root, "linux-config"),
		filepath.Join(overlay, "etc", "motd"),
		overlay,
		filepath.Join(root, "missing", "init.sh"),
	})
	assert.Equal(t, []string{root, overlay, filepath.Join(overlay, "etc")}, dirs)
}

func TestWatcher_ReportsWrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	root := t.TempDir()
	input := filepath.Join(root, "init.sh")
	require.NoError(t, os.WriteFile(input, []byte("#!/bin/sh\n"), 0o600))

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, []string{input}))

	got := make(chan ports.WatchEvent, 1)
	go func() {
		for ev := range w.Events() {
			if ev.Path == input {
				got <- ev
				return
			}
		}
	}()

	require.NoError(t, os.WriteFile(input, []byte("#!/bin/sh\necho hi\n"), 0o600))

	select {
	case ev := <-got:
		assert.Contains(t, []ports.WatchOp{ports.OpWrite, ports.OpCreate}, ev.Operation)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for modified input")
	}
}
