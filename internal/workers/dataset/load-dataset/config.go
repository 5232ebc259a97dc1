// internal/workers/dataset/load-dataset/config.go
package loaddataset

import (
	"time"

	"data-workers/internal/common/config"
)

type Config struct {
	Timeout     time.Duration
	InputDir    string
	MaxFileSize int64
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:     60 * time.Second,
		InputDir:    "./data/uploads",
		MaxFileSize: 20 << 20,
	}
}

// ConfigFrom reads the worker timeout and storage section of the app config.
func ConfigFrom(app *config.Config) *Config {
	cfg := DefaultConfig()
	if app == nil {
		return cfg
	}
	cfg.Timeout = config.GetDuration(config.GetWorkerConfig(app, TaskType).Timeout)
	if app.Storage.InputDir != "" {
		cfg.InputDir = app.Storage.InputDir
	}
	if app.Storage.MaxFileSize > 0 {
		cfg.MaxFileSize = app.Storage.MaxFileSize
	}
	return cfg
}
