package config

import (
	"fmt"
	"time"

	"github.com/upkeephq/upkeep/internal/env"
)

// WorkerConfig holds all configuration for the worker binary.
type WorkerConfig struct {
	Database      DatabaseConfig
	Sweep         SweepConfig
	Observability ObservabilityConfig
}

// SweepConfig holds configuration for the periodic maintenance sweeps.
type SweepConfig struct {
	// MaterializeSpec is the cron spec for the schedule materializer.
	// Defaults to hourly when empty.
	MaterializeSpec string `env:"UPKEEP_SWEEP_MATERIALIZE_SPEC"`

	// OverdueSpec is the cron spec for the overdue sweep.
	// Defaults to shortly after midnight UTC when empty.
	OverdueSpec string `env:"UPKEEP_SWEEP_OVERDUE_SPEC"`

	// OperationTimeout bounds a single sweep run.
	OperationTimeout time.Duration `env:"UPKEEP_SWEEP_OPERATION_TIMEOUT"`
}

// LoadWorkerConfig loads and validates worker configuration from environment.
func LoadWorkerConfig() (*WorkerConfig, error) {
	cfg := &WorkerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load worker config: %w", err)
	}

	return cfg, nil
}
