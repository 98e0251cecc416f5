package qemu

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/marshal/internal/adapters/logger"
	"go.trai.ch/marshal/internal/core/ports"
)

// NodeID is the unique identifier for the emulator launcher Graft node.
const NodeID graft.ID = "adapter.launcher"

func init() {
	graft.Register(graft.Node[ports.Launcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Launcher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLauncher(log), nil
		},
	})
}
