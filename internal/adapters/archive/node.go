package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/marshal/internal/adapters/config"
	"go.trai.ch/marshal/internal/adapters/shell"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
)

// NodeID is the unique identifier for the archive composer Graft node.
const NodeID graft.ID = "adapter.archive"

func init() {
	graft.Register(graft.Node[ports.ArchiveComposer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, config.PlatformNodeID},
		Run: func(ctx context.Context) (ports.ArchiveComposer, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			platform, err := graft.Dep[domain.Platform](ctx)
			if err != nil {
				return nil, err
			}
			return NewComposer(runner, platform.DevNodesArchive()), nil
		},
	})
}
