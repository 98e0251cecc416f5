package fs

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/marshal/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher fingerprints files with XXHash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Fingerprint returns the fingerprint of path. The content hash is reused
// from prev when mtime and size are unchanged.
func (h *Hasher) Fingerprint(path string, prev *domain.FileFingerprint) (domain.FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileFingerprint{}, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}

	fp := domain.FileFingerprint{
		ModTime: info.ModTime().UnixNano(),
		Size:    info.Size(),
	}
	if prev != nil && prev.ModTime == fp.ModTime && prev.Size == fp.Size && prev.Hash != "" {
		fp.Hash = prev.Hash
		return fp, nil
	}

	sum, err := h.ComputeFileHash(path)
	if err != nil {
		return domain.FileFingerprint{}, err
	}
	fp.Hash = fmt.Sprintf("%016x", sum)
	return fp, nil
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	return hasher.Sum64(), nil
}
