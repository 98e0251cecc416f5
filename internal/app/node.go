package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/marshal/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/marshal/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/marshal/internal/adapters/qemu"               //nolint:depguard // Wired in app layer
	"go.trai.ch/marshal/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/marshal/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/marshal/internal/engine/session"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App       *App
	Logger    ports.Logger
	Telemetry ports.Telemetry
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			config.PlatformNodeID,
			session.NodeID,
			qemu.NodeID,
			watcher.NodeID,
			logger.NodeID,
			progrock.FeedNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.WorkloadLoader](ctx)
	if err != nil {
		return nil, err
	}

	platform, err := graft.Dep[domain.Platform](ctx)
	if err != nil {
		return nil, err
	}

	sess, err := graft.Dep[*session.Session](ctx)
	if err != nil {
		return nil, err
	}

	launcher, err := graft.Dep[ports.Launcher](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	feed, err := graft.Dep[*progrock.Feed](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, sess, launcher, w, log, platform).WithProgress(feed), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       app,
		Logger:    log,
		Telemetry: telemetry,
	}, nil
}
