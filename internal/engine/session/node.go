package session

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/marshal/internal/adapters/artifact" //nolint:depguard // Wired in engine layer
	"go.trai.ch/marshal/internal/adapters/config"   //nolint:depguard // Wired in engine layer
	"go.trai.ch/marshal/internal/adapters/distro"   //nolint:depguard // Wired in engine layer
	"go.trai.ch/marshal/internal/adapters/fs"       //nolint:depguard // Wired in engine layer
	"go.trai.ch/marshal/internal/adapters/git"      //nolint:depguard // Wired in engine layer
	"go.trai.ch/marshal/internal/adapters/image"    //nolint:depguard // Wired in engine layer
	"go.trai.ch/marshal/internal/adapters/logger"   //nolint:depguard // Wired in engine layer
	"go.trai.ch/marshal/internal/adapters/qemu"     //nolint:depguard // Wired in engine layer
	"go.trai.ch/marshal/internal/adapters/shell"    //nolint:depguard // Wired in engine layer
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/marshal/internal/engine/scheduler"
)

// NodeID is the unique identifier for the build session Graft node.
const NodeID graft.ID = "engine.session"

func init() {
	graft.Register(graft.Node[*Session]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			scheduler.NodeID,
			artifact.NodeID,
			image.NodeID,
			distro.NodeID,
			qemu.NodeID,
			git.NodeID,
			shell.NodeID,
			fs.WalkerNodeID,
			logger.NodeID,
			config.PlatformNodeID,
		},
		Run: runSessionNode,
	})
}

func runSessionNode(ctx context.Context) (*Session, error) {
	var (
		svc Services
		err error
	)
	if svc.Scheduler, err = graft.Dep[*scheduler.Scheduler](ctx); err != nil {
		return nil, err
	}
	if svc.Artifacts, err = graft.Dep[ports.ArtifactBuilder](ctx); err != nil {
		return nil, err
	}
	if svc.Images, err = graft.Dep[ports.ImageMutator](ctx); err != nil {
		return nil, err
	}
	if svc.Distros, err = graft.Dep[ports.DistroRegistry](ctx); err != nil {
		return nil, err
	}
	if svc.Launcher, err = graft.Dep[ports.Launcher](ctx); err != nil {
		return nil, err
	}
	if svc.Status, err = graft.Dep[ports.StalenessProvider](ctx); err != nil {
		return nil, err
	}
	if svc.Runner, err = graft.Dep[ports.CommandRunner](ctx); err != nil {
		return nil, err
	}
	if svc.Walker, err = graft.Dep[*fs.Walker](ctx); err != nil {
		return nil, err
	}
	if svc.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
		return nil, err
	}
	if svc.Platform, err = graft.Dep[domain.Platform](ctx); err != nil {
		return nil, err
	}
	return New(svc), nil
}
