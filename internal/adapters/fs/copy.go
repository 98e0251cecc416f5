package fs

import (
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/zerr"
)

// CopyFile copies src to dst, creating dst's parent directories and keeping
// src's permission bits.
func CopyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return copyErr(err, src, dst)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	info, err := in.Stat()
	if err != nil {
		return copyErr(err, src, dst)
	}

	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return copyErr(err, src, dst)
	}

	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return copyErr(err, src, dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return copyErr(err, src, dst)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return copyErr(err, src, dst)
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return copyErr(err, src, dst)
	}
	return nil
}

func copyErr(err error, src, dst string) error {
	return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrFileCopyFailed.Error()), "src", src), "dst", dst)
}
