package artifact

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/marshal/internal/adapters/archive"
	"go.trai.ch/marshal/internal/adapters/config"
	"go.trai.ch/marshal/internal/adapters/git"
	"go.trai.ch/marshal/internal/adapters/kconfig"
	"go.trai.ch/marshal/internal/adapters/mount"
	"go.trai.ch/marshal/internal/adapters/shell"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
)

// NodeID is the unique identifier for the artifact builder Graft node.
const NodeID graft.ID = "adapter.artifact_builder"

func init() {
	graft.Register(graft.Node[ports.ArtifactBuilder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			git.CheckerNodeID,
			mount.NodeID,
			archive.NodeID,
			kconfig.NodeID,
			config.PlatformNodeID,
		},
		Run: func(ctx context.Context) (ports.ArtifactBuilder, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			checker, err := graft.Dep[ports.CheckoutChecker](ctx)
			if err != nil {
				return nil, err
			}
			mounter, err := graft.Dep[ports.ImageMounter](ctx)
			if err != nil {
				return nil, err
			}
			composer, err := graft.Dep[ports.ArchiveComposer](ctx)
			if err != nil {
				return nil, err
			}
			kc, err := graft.Dep[ports.KernelConfigComposer](ctx)
			if err != nil {
				return nil, err
			}
			platform, err := graft.Dep[domain.Platform](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(runner, checker, mounter, composer, kc, platform), nil
		},
	})
}
