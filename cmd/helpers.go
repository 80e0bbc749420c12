package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ziadkadry99/pagecraft/internal/codegen"
	"github.com/ziadkadry99/pagecraft/internal/config"
	"github.com/ziadkadry99/pagecraft/internal/db"
	"github.com/ziadkadry99/pagecraft/internal/logging"
	"github.com/ziadkadry99/pagecraft/internal/projects"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `pagecraft init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the logger for a command. Logs go to stderr so stdout
// stays free for MCP traffic.
func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logging.New(level, cfg.Log.Format, os.Stderr)
}

// newGenerator creates the markup generator configured for exports.
func newGenerator(cfg *config.Config) *codegen.Generator {
	return codegen.New(codegen.WithEscaping(cfg.Export.EscapeProps))
}

// openRepository returns the project repository selected by storage.driver.
func openRepository(ctx context.Context, cfg *config.Config, database *db.DB) (projects.Repository, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		return projects.NewMongoStore(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
	default:
		return projects.NewStore(database), nil
	}
}
