package ports

import "context"

// ImageMounter gives scoped, exclusive access to the filesystem inside a disk image.
//
//go:generate mockgen -source=mounter.go -destination=mocks/mock_mounter.go -package=mocks
type ImageMounter interface {
	// WithMount mounts img, calls fn with the mount point and unmounts on every exit path.
	// Concurrent calls for the same image are serialized.
	WithMount(ctx context.Context, img string, readOnly bool, fn func(root string) error) error
}
