// internal/workers/cleaning/apply-corrections/config.go
package applycorrections

import (
	"time"

	"data-workers/internal/common/config"
	"data-workers/internal/corrections"
)

type Config struct {
	Timeout        time.Duration
	ApplyThreshold float64
}

func DefaultConfig() *Config {
	return &Config{Timeout: 30 * time.Second, ApplyThreshold: corrections.DefaultThreshold}
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
