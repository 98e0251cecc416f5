package cas

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/marshal/internal/adapters/config"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
)

// NodeID is the unique identifier for the build info store Graft node.
const NodeID graft.ID = "adapter.build_info_store"

func init() {
	graft.Register(graft.Node[ports.BuildInfoStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.PlatformNodeID},
		Run: func(ctx context.Context) (ports.BuildInfoStore, error) {
			platform, err := graft.Dep[domain.Platform](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(filepath.Join(platform.Root, domain.DefaultStorePath()))
		},
	})
}
