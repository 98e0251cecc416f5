package distro

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/marshal/internal/adapters/config"
	"go.trai.ch/marshal/internal/adapters/git"
	"go.trai.ch/marshal/internal/adapters/shell"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
)

// NodeID is the unique identifier for the distro registry Graft node.
const NodeID graft.ID = "adapter.distros"

func init() {
	graft.Register(graft.Node[ports.DistroRegistry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, git.NodeID, git.CheckerNodeID, config.PlatformNodeID},
		Run: func(ctx context.Context) (ports.DistroRegistry, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			status, err := graft.Dep[ports.StalenessProvider](ctx)
			if err != nil {
				return nil, err
			}
			checker, err := graft.Dep[ports.CheckoutChecker](ctx)
			if err != nil {
				return nil, err
			}
			platform, err := graft.Dep[domain.Platform](ctx)
			if err != nil {
				return nil, err
			}

			workDir := filepath.Join(platform.GenDir, "overlays")
			recipes := DefaultRecipes(platform)
			builders := make([]ports.DistroBuilder, 0, len(recipes))
			for _, r := range recipes {
				builders = append(builders, NewBuilder(r, runner, status, checker, workDir))
			}
			return NewRegistry(builders...), nil
		},
	})
}
