// internal/workers/export/export-dataset/config.go
package exportdataset

import (
	"time"

	"data-workers/internal/common/config"
)

type Config struct {
	Timeout         time.Duration
	OutputDir       string
	IndexingEnabled bool
}

func DefaultConfig() *Config {
	return &Config{Timeout: 60 * time.Second, OutputDir: "./data/output"}
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
	cfg.IndexingEnabled = app.Export.IndexingEnabled
	return cfg
}
