package ports

import "context"

// StalenessProvider supplies the fingerprints tasks compare against their last run.
//
//go:generate mockgen -source=staleness.go -destination=mocks/mock_staleness.go -package=mocks
type StalenessProvider interface {
	// RepoStatus fingerprints the state of the source tree at path (revision plus dirty files).
	RepoStatus(ctx context.Context, path string) (string, error)

	// ToolVersions fingerprints the versions of the cross toolchain.
	ToolVersions(ctx context.Context) (string, error)
}

// CheckoutChecker verifies that required external source trees are present.
type CheckoutChecker interface {
	// Check returns domain.ErrMissingExternalCheckout when path is absent or not initialized.
	Check(path string) error
}
