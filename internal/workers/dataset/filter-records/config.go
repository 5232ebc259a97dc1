// internal/workers/dataset/filter-records/config.go
package filterrecords

import (
	"time"

	"data-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// MaxRecords caps how many matching rows are copied into the job result.
	MaxRecords int
}

func DefaultConfig() *Config {
	return &Config{Timeout: 15 * time.Second, MaxRecords: 500}
}

func ConfigFrom(app *config.Config) *Config {
	cfg := DefaultConfig()
	if app != nil {
		cfg.Timeout = config.GetDuration(config.GetWorkerConfig(app, TaskType).Timeout)
	}
	return cfg
}
