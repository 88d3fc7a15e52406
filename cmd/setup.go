package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/artistpage/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default config to the --config path, or config.toml.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("created config", "path", path)
	return r.writeOK("Config written to %s", path)
}

// SetupDatabase creates the session database and applies migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Database
	if cfg.Path == "" {
		return fmt.Errorf("%w: database.path is required", shared.ErrInvalidConfig)
	}

	db, err := shared.OpenSessionDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return r.writeOK("Session database ready at %s", cfg.Path)
}
