package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// NodeID is the unique identifier for the workload loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// PlatformNodeID is the unique identifier for the platform layout Graft node.
	PlatformNodeID graft.ID = "adapter.platform"
)

func init() {
	graft.Register(graft.Node[domain.Platform]{
		ID:        PlatformNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (domain.Platform, error) {
			root, err := os.Getwd()
			if err != nil {
				return domain.Platform{}, zerr.Wrap(err, "failed to resolve working directory")
			}
			return domain.DefaultPlatform(root), nil
		},
	})

	graft.Register(graft.Node[ports.WorkloadLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{PlatformNodeID},
		Run: func(ctx context.Context) (ports.WorkloadLoader, error) {
			platform, err := graft.Dep[domain.Platform](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(platform), nil
		},
	})
}
