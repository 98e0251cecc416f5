package ports

import (
	"context"

	"go.trai.ch/marshal/internal/core/domain"
)

// ArtifactBuilder produces kernel+bootloader binaries.
//
//go:generate mockgen -source=builders.go -destination=mocks/mock_builders.go -package=mocks
type ArtifactBuilder interface {
	// BuildBin builds cfg's binary, or its disk-less variant when nodisk is set.
	BuildBin(ctx context.Context, cfg *domain.WorkloadConfig, nodisk bool) error

	// BuildSupport builds the initramfs support userland shared by all workloads.
	BuildSupport(ctx context.Context) error
}

// ImageMutator mutates disk images.
type ImageMutator interface {
	// Materialize copies baseImg to img unless img already exists.
	Materialize(img, baseImg string) error

	// ApplyFiles copies files into the image filesystem.
	ApplyFiles(ctx context.Context, img string, files []domain.FileSpec) error

	// RunGuestInit installs spec as a one-shot boot action, boots the image and clears it.
	RunGuestInit(
		ctx context.Context,
		img string,
		gen BootOverlayGenerator,
		spec domain.RunSpec,
		boot func(context.Context) error,
	) (domain.BootState, error)

	// InstallRunScript installs spec as the image's permanent boot action.
	InstallRunScript(ctx context.Context, img string, gen BootOverlayGenerator, spec domain.RunSpec) error
}
