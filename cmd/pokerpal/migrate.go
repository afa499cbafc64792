package main

import (
	"context"

	"github.com/susu3304/pokerpal/internal/config"
	"github.com/susu3304/pokerpal/internal/db"
	"github.com/susu3304/pokerpal/internal/logging"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.RunMigrations(ctx); err != nil {
		return err
	}
	logger.Info().Msg("Migrations applied")
	return nil
}
