package config

import (
	"time"

	"github.com/ziadkadry99/pagecraft/internal/autosave"
	"github.com/ziadkadry99/pagecraft/internal/export"
	"github.com/ziadkadry99/pagecraft/internal/history"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".pagecraft.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                  8080,
			RequestTimeoutSeconds: 60,
			SessionIdleMinutes:    30,
			MaxAnonymousSessions:  500,
		},
		Storage: StorageConfig{
			Driver:        DriverSQLite,
			SQLitePath:    ".pagecraft/pagecraft.db",
			MongoDatabase: "pagecraft",
		},
		History:  HistoryConfig{Limit: history.DefaultLimit},
		Autosave: AutosaveConfig{DelayMS: int(autosave.DefaultDelay / time.Millisecond)},
		Export: ExportConfig{
			Filename:    export.DefaultFilename,
			EscapeProps: true,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// AutosaveDelay returns the autosave quiet period as a duration.
func (c *Config) AutosaveDelay() time.Duration {
	return time.Duration(c.Autosave.DelayMS) * time.Millisecond
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// SessionIdle returns how long an unused editing session stays in memory.
func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.Server.SessionIdleMinutes) * time.Minute
}
