package image

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/marshal/internal/adapters/config"
	"go.trai.ch/marshal/internal/adapters/mount"
	"go.trai.ch/marshal/internal/adapters/shell"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
)

// NodeID is the unique identifier for the image mutator Graft node.
const NodeID graft.ID = "adapter.image_mutator"

func init() {
	graft.Register(graft.Node[ports.ImageMutator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{mount.NodeID, shell.NodeID, config.PlatformNodeID},
		Run: func(ctx context.Context) (ports.ImageMutator, error) {
			mounter, err := graft.Dep[ports.ImageMounter](ctx)
			if err != nil {
				return nil, err
			}
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			platform, err := graft.Dep[domain.Platform](ctx)
			if err != nil {
				return nil, err
			}
			return NewMutator(mounter, runner, platform.GenDir, os.Geteuid() != 0), nil
		},
	})
}
