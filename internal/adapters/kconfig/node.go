package kconfig

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/marshal/internal/adapters/config"
	"go.trai.ch/marshal/internal/adapters/git"
	"go.trai.ch/marshal/internal/adapters/shell"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
)

// NodeID is the unique identifier for the kernel config composer Graft node.
const NodeID graft.ID = "adapter.kconfig"

func init() {
	graft.Register(graft.Node[ports.KernelConfigComposer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, git.CheckerNodeID, config.PlatformNodeID},
		Run: func(ctx context.Context) (ports.KernelConfigComposer, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
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
			return NewComposer(runner, checker, platform), nil
		},
	})
}
