package ports

import (
	"context"

	"go.trai.ch/marshal/internal/core/domain"
)

// Launcher boots a workload under emulation and blocks until the guest powers off.
//
//go:generate mockgen -source=launcher.go -destination=mocks/mock_launcher.go -package=mocks
type Launcher interface {
	Boot(ctx context.Context, cfg *domain.WorkloadConfig) error
}
