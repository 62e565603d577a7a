package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/utpal74/ai-task-scheduler/config"
	"github.com/utpal74/ai-task-scheduler/db"
	"github.com/utpal74/ai-task-scheduler/logger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the Postgres schema",
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Store.Driver != "postgres" {
		return errors.New("migrate requires STORE_DRIVER=postgres")
	}

	log := logger.GetLogger(cfg.Env)
	defer log.Sync()
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.Store.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.NewPostgresStore(pool, log).Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
	return nil
}
