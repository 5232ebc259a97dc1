// internal/workers/rules/manage-rules/config.go
package managerules

import (
	"time"

	"data-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{Timeout: 10 * time.Second}
}

func ConfigFrom(app *config.Config) *Config {
	cfg := DefaultConfig()
	if app != nil {
		cfg.Timeout = config.GetDuration(config.GetWorkerConfig(app, TaskType).Timeout)
	}
	return cfg
}
