package ports

import "go.trai.ch/marshal/internal/core/domain"

// WorkloadLoader loads workload descriptors.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type WorkloadLoader interface {
	// Load reads every workload descriptor under dir, keyed by workload name.
	Load(dir string) (map[string]*domain.WorkloadConfig, error)
}
