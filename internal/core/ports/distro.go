package ports

import (
	"context"

	"go.trai.ch/marshal/internal/core/domain"
)

// BootOverlayGenerator produces an image delta that swaps the image's active boot action.
//
//go:generate mockgen -source=distro.go -destination=mocks/mock_distro.go -package=mocks
type BootOverlayGenerator interface {
	// GenerateBootScriptOverlay returns a directory whose contents, applied at the image
	// root, make script (with args) the boot action. An empty script yields the no-op action.
	GenerateBootScriptOverlay(script string, args []string) (string, error)
}

// DistroBuilder builds a distribution's base image and knows how to swap its boot action.
type DistroBuilder interface {
	BootOverlayGenerator

	// Name is the distro name workloads refer to.
	Name() string

	// BaseImage returns the path of the base image, or "" when the distro has none.
	BaseImage() string

	// BuildBaseImage produces BaseImage().
	BuildBaseImage(ctx context.Context) error

	// FileDeps returns the inputs of the base image build.
	FileDeps() []string

	// UpToDate returns additional staleness signals for the base image build.
	UpToDate() []domain.StalenessSignal
}

// DistroRegistry resolves the distros workloads may be based on.
type DistroRegistry interface {
	// Get returns the builder for name, or domain.ErrUnknownDistro.
	Get(name string) (DistroBuilder, error)

	// All returns every registered builder ordered by name.
	All() []DistroBuilder
}
