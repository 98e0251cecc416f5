package distro

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
)

var _ ports.DistroRegistry = (*Registry)(nil)

// Registry maps distro names to their builders.
type Registry struct {
	builders map[string]ports.DistroBuilder
}

// NewRegistry creates a Registry holding builders.
func NewRegistry(builders ...ports.DistroBuilder) *Registry {
	r := &Registry{builders: make(map[string]ports.DistroBuilder, len(builders))}
	for _, b := range builders {
		r.builders[b.Name()] = b
	}
	return r
}

// Get returns the builder for name.
func (r *Registry) Get(name string) (ports.DistroBuilder, error) {
	b, ok := r.builders[name]
	if !ok {
		return nil, domain.Annotate(domain.ErrUnknownDistro, "distro", name)
	}
	return b, nil
}

// All returns every builder ordered by name.
func (r *Registry) All() []ports.DistroBuilder {
	all := make([]ports.DistroBuilder, 0, len(r.builders))
	for _, b := range r.builders {
		all = append(all, b)
	}
	slices.SortFunc(all, func(a, b ports.DistroBuilder) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return all
}

// DefaultRecipes returns the distros shipped with the board.
func DefaultRecipes(p domain.Platform) []Recipe {
	distros := filepath.Join(p.BoardDir, "distros")

	br := filepath.Join(distros, "br")
	brSrc := filepath.Join(br, "buildroot")
	fedora := filepath.Join(distros, "fedora")

	return []Recipe{
		{
			Name: "bare",
			Init: SysVInit,
		},
		{
			Name:   "br",
			Init:   SysVInit,
			Image:  filepath.Join(br, "rootfs.img"),
			Source: brSrc,
			Config: filepath.Join(br, "buildroot-config"),
			Build: []ports.Command{
				{Name: "make", Args: []string{p.JobsFlag()}, Dir: brSrc},
			},
			Output: filepath.Join(brSrc, "output", "images", "rootfs.ext2"),
		},
		{
			Name:  "fedora",
			Init:  SystemdInit,
			Image: filepath.Join(fedora, "rootfs.img"),
			Build: []ports.Command{
				{Name: "make", Args: []string{"rootfs.img"}, Dir: fedora},
			},
		},
	}
}
