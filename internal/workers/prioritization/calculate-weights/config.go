// internal/workers/prioritization/calculate-weights/config.go
package calculateweights

import (
	"time"

	"data-workers/internal/ahp"
	"data-workers/internal/common/config"
)

type Config struct {
	Timeout              time.Duration
	ConsistencyThreshold float64
}

func DefaultConfig() *Config {
	return &Config{Timeout: 10 * time.Second, ConsistencyThreshold: ahp.ConsistencyThreshold}
}

func ConfigFrom(app *config.Config) *Config {
	cfg := DefaultConfig()
	if app == nil {
		return cfg
	}
	cfg.Timeout = config.GetDuration(config.GetWorkerConfig(app, TaskType).Timeout)
	if app.Cleaning.ConsistencyThreshold > 0 {
		cfg.ConsistencyThreshold = app.Cleaning.ConsistencyThreshold
	}
	return cfg
}
