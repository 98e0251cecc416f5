// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/marshal/internal/adapters/archive"
	_ "go.trai.ch/marshal/internal/adapters/artifact"
	_ "go.trai.ch/marshal/internal/adapters/cas"
	_ "go.trai.ch/marshal/internal/adapters/config"
	_ "go.trai.ch/marshal/internal/adapters/distro"
	_ "go.trai.ch/marshal/internal/adapters/fs"
	_ "go.trai.ch/marshal/internal/adapters/git"
	_ "go.trai.ch/marshal/internal/adapters/image"
	_ "go.trai.ch/marshal/internal/adapters/kconfig"
	_ "go.trai.ch/marshal/internal/adapters/logger"
	_ "go.trai.ch/marshal/internal/adapters/mount"
	_ "go.trai.ch/marshal/internal/adapters/qemu"
	_ "go.trai.ch/marshal/internal/adapters/shell"
	_ "go.trai.ch/marshal/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/marshal/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/marshal/internal/app"
	_ "go.trai.ch/marshal/internal/engine/scheduler"
	_ "go.trai.ch/marshal/internal/engine/session"
)
