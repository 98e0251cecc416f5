// Package fs provides file system adapters for walking, hashing and copying files.
package fs

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file under root. Symlinks are not followed
// and VCS metadata directories are skipped.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if name := d.Name(); path != root && (name == ".git" || name == ".jj") {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// ExpandDeps turns a list of file and directory paths into a sorted list of
// files. Directories expand to the regular files beneath them and symlinks are
// dropped. Paths that do not exist are kept so the scheduler can report them.
func (w *Walker) ExpandDeps(paths ...string) []string {
	seen := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Lstat(p)
		if err == nil && info.Mode()&os.ModeSymlink != 0 {
			continue
		}
		if err != nil || !info.IsDir() {
			seen[p] = struct{}{}
			continue
		}
		for f := range w.WalkFiles(p) {
			seen[f] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
