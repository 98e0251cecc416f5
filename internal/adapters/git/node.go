package git

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/marshal/internal/adapters/config"
	"go.trai.ch/marshal/internal/adapters/shell"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the staleness provider Graft node.
	NodeID graft.ID = "adapter.staleness"

	// CheckerNodeID is the unique identifier for the checkout checker Graft node.
	CheckerNodeID graft.ID = "adapter.checkout_checker"
)

func init() {
	graft.Register(graft.Node[ports.StalenessProvider]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, config.PlatformNodeID},
		Run: func(ctx context.Context) (ports.StalenessProvider, error) {
			return newStatus(ctx)
		},
	})

	graft.Register(graft.Node[ports.CheckoutChecker]{
		ID:        CheckerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, config.PlatformNodeID},
		Run: func(ctx context.Context) (ports.CheckoutChecker, error) {
			return newStatus(ctx)
		},
	})
}

func newStatus(ctx context.Context) (*Status, error) {
	runner, err := graft.Dep[ports.CommandRunner](ctx)
	if err != nil {
		return nil, err
	}
	platform, err := graft.Dep[domain.Platform](ctx)
	if err != nil {
		return nil, err
	}
	return NewStatus(runner, platform), nil
}
