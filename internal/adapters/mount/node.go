package mount

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/marshal/internal/adapters/shell"
	"go.trai.ch/marshal/internal/core/ports"
)

// NodeID is the unique identifier for the image mounter Graft node.
const NodeID graft.ID = "adapter.mounter"

func init() {
	graft.Register(graft.Node[ports.ImageMounter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.ImageMounter, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoopMounter(runner, RuntimeDir(), os.Geteuid() != 0), nil
		},
	})
}
