package domain

import (
	"path/filepath"
	"runtime"
	"strconv"
)

const (
	// MarshalDirName is the name of the internal workspace directory.
	MarshalDirName = ".marshal"

	// StoreDirName is the name of the build info store directory.
	StoreDirName = "store"

	// GenDirName is the name of the directory holding generated scripts and configs.
	GenDirName = "gen"

	// SupportTaskName is the reserved name of the shared initramfs support build task.
	SupportTaskName = "_busybox"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// ScriptPerm is the permission for generated scripts (rwxr-xr-x).
	ScriptPerm = 0o755
)

// DefaultStorePath returns the default path for the build info store.
func DefaultStorePath() string {
	return filepath.Join(MarshalDirName, StoreDirName)
}

// DefaultGenPath returns the default path for generated files.
func DefaultGenPath() string {
	return filepath.Join(MarshalDirName, GenDirName)
}

// Platform describes the fixed on-disk layout and toolchain of the target board.
type Platform struct {
	// Root is the directory the platform paths below are resolved against.
	Root string

	BoardDir      string
	LinuxDir      string
	InitramfsDir  string
	BootloaderDir string
	BusyboxDir    string
	BusyboxConfig string
	GenDir        string

	Arch           string
	CrossCompile   string
	BootloaderHost string
	Jobs           int
}

// DefaultPlatform returns the layout of the RISC-V board rooted at root.
func DefaultPlatform(root string) Platform {
	return Platform{
		Root:           root,
		BoardDir:       filepath.Join(root, "boards", "default"),
		LinuxDir:       filepath.Join(root, "riscv-linux"),
		InitramfsDir:   filepath.Join(root, "boards", "default", "initramfs"),
		BootloaderDir:  filepath.Join(root, "riscv-pk"),
		BusyboxDir:     filepath.Join(root, "busybox"),
		BusyboxConfig:  filepath.Join(root, "boards", "default", "busybox-config"),
		GenDir:         filepath.Join(root, DefaultGenPath()),
		Arch:           "riscv",
		CrossCompile:   "riscv64-unknown-linux-gnu-",
		BootloaderHost: "riscv64-unknown-elf",
	}
}

// DriversTree returns the initramfs source tree holding built kernel modules.
func (p Platform) DriversTree() string {
	return filepath.Join(p.InitramfsDir, "drivers")
}

// SupportTree returns the mode-specific initramfs support tree ("disk" or "nodisk").
func (p Platform) SupportTree(nodisk bool) string {
	if nodisk {
		return filepath.Join(p.InitramfsDir, "nodisk")
	}
	return filepath.Join(p.InitramfsDir, "disk")
}

// DevNodesArchive returns the fixed archive fragment containing /dev/console and /dev/tty.
func (p Platform) DevNodesArchive() string {
	return filepath.Join(p.InitramfsDir, "devNodes.cpio")
}

// BusyboxTarget returns the installed busybox binary inside the disk support tree.
func (p Platform) BusyboxTarget() string {
	return filepath.Join(p.SupportTree(false), "bin", "busybox")
}

// BootloaderBuildDir returns the bootloader's out-of-tree build directory.
func (p Platform) BootloaderBuildDir() string {
	return filepath.Join(p.BootloaderDir, "build")
}

// JobsFlag returns the make parallelism flag, defaulting to the number of CPUs.
func (p Platform) JobsFlag() string {
	n := p.Jobs
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return "-j" + strconv.Itoa(n)
}
