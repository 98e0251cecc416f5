// Package mount provides scoped loop mounting of disk images.
package mount

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ImageMounter = (*LoopMounter)(nil)

// LoopMounter implements ports.ImageMounter with mount -o loop.
type LoopMounter struct {
	runner  ports.CommandRunner
	baseDir string
	sudo    bool

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLoopMounter creates a LoopMounter placing mount points under baseDir.
// When sudo is set, mount and umount are run through sudo.
func NewLoopMounter(runner ports.CommandRunner, baseDir string, sudo bool) *LoopMounter {
	return &LoopMounter{
		runner:  runner,
		baseDir: baseDir,
		sudo:    sudo,
		locks:   make(map[string]*sync.Mutex),
	}
}

// WithMount mounts img, runs fn with the mount point and always unmounts.
// Mounts of the same image are serialized.
func (m *LoopMounter) WithMount(ctx context.Context, img string, readOnly bool, fn func(root string) error) (err error) {
	abs, err := filepath.Abs(img)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMountFailed.Error()), "image", img)
	}

	lock := m.lockFor(abs)
	lock.Lock()
	defer lock.Unlock()

	dir := m.MountPoint(abs)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMountFailed.Error()), "image", img)
	}

	opts := "loop"
	if readOnly {
		opts += ",ro"
	}
	if err := m.runner.Run(ctx, m.command("mount", "-o", opts, abs, dir)); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMountFailed.Error()), "image", img)
	}

	defer func() {
		// Unmount even when ctx was cancelled while fn ran.
		uerr := m.runner.Run(context.WithoutCancel(ctx), m.command("umount", dir))
		if uerr != nil {
			err = errors.Join(err, zerr.With(zerr.Wrap(uerr, domain.ErrUnmountFailed.Error()), "image", img))
		}
	}()

	return fn(dir)
}

// MountPoint returns the mount directory used for the image at abs.
func (m *LoopMounter) MountPoint(abs string) string {
	return filepath.Join(m.baseDir, fmt.Sprintf("mnt-%016x", xxhash.Sum64String(abs)))
}

func (m *LoopMounter) lockFor(img string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[img]
	if !ok {
		l = &sync.Mutex{}
		m.locks[img] = l
	}
	return l
}

func (m *LoopMounter) command(name string, args ...string) ports.Command {
	if m.sudo {
		return ports.Command{Name: "sudo", Args: append([]string{name}, args...)}
	}
	return ports.Command{Name: name, Args: args}
}
