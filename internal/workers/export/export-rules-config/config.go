// internal/workers/export/export-rules-config/config.go
package exportrulesconfig

import (
	"time"

	"data-workers/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	OutputDir    string
	RulesVersion string
}

func DefaultConfig() *Config {
	return &Config{Timeout: 15 * time.Second, OutputDir: "./data/output", RulesVersion: "1.0"}
}

func ConfigFrom(app *config.Config) *Config {
	cfg := DefaultConfig()
	if app == nil {
		return cfg
	}
	cfg.Timeout = config.GetDuration(config.GetWorkerConfig(app, TaskType).Timeout)
	if app.Storage.OutputDir != "" {
		cfg.OutputDir = app.Storage.OutputDir
	}
	if app.Export.RulesVersion != "" {
		cfg.RulesVersion = app.Export.RulesVersion
	}
	return cfg
}
