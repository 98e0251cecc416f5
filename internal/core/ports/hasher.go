package ports

import "go.trai.ch/marshal/internal/core/domain"

// Hasher fingerprints file dependencies.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint returns the current fingerprint of path.
	// If prev matches the file's mtime and size, its hash is reused without reading the file.
	Fingerprint(path string, prev *domain.FileFingerprint) (domain.FileFingerprint, error)
}
