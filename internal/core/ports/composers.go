package ports

import "context"

// ArchiveComposer packs source trees into a single initramfs archive.
//
//go:generate mockgen -source=composers.go -destination=mocks/mock_composers.go -package=mocks
type ArchiveComposer interface {
	// Compose archives each of srcs in scratchDir and concatenates them in order,
	// appending the device node fragment when includeDevNodes is set.
	// It returns the path of the final archive.
	Compose(ctx context.Context, srcs []string, scratchDir string, includeDevNodes bool) (string, error)
}

// KernelConfigComposer produces kernel configurations and out-of-tree drivers.
type KernelConfigComposer interface {
	// GenerateConfig merges kfrags over the architecture defconfig in linuxSrc.
	GenerateConfig(ctx context.Context, kfrags []string, linuxSrc string) error

	// WriteInitramfsFragment writes a config fragment embedding archive as the initramfs.
	WriteInitramfsFragment(archive, dst string) error

	// BuildDrivers builds the board drivers against linuxSrc and returns the
	// directory tree holding the installed modules.
	BuildDrivers(ctx context.Context, kfrags []string, linuxSrc string) (string, error)
}
