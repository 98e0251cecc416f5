package mount

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "marshal"

// RuntimeDir returns the directory that holds image mount points.
//
//	Linux:   $XDG_RUNTIME_DIR/marshal or /run/user/<uid>/marshal
//	macOS:   ~/Library/Caches/marshal/run
func RuntimeDir() string {
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, appName)
	}
	return filepath.Join(xdg.CacheHome, appName, "run")
}
