// internal/workers/cleaning/suggest-corrections/config.go
package suggestcorrections

import (
	"time"

	"data-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// ApplyThreshold decides which suggestions are reported as auto-applicable.
	ApplyThreshold float64
}

func DefaultConfig() *Config {
	return &Config{Timeout: 20 * time.Second, ApplyThreshold: 0.8}
}

func ConfigFrom(app *config.Config) *Config {
	cfg := DefaultConfig()
	if app == nil {
		return cfg
	}
	cfg.Timeout = config.GetDuration(config.GetWorkerConfig(app, TaskType).Timeout)
	if app.Cleaning.ApplyThreshold > 0 {
		cfg.ApplyThreshold = app.Cleaning.ApplyThreshold
	}
	return cfg
}
