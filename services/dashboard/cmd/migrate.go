package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"itoffers/common/database/schema"
	"itoffers/common/database/schema/migrations"
	"itoffers/services/dashboard/internal/config"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply ClickHouse schema migrations",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back the most recent migration instead")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx := cmd.Context()
	db, err := newClickHouse(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to ClickHouse", zap.Error(err))
		return err
	}
	defer db.Close()

	migrator := schema.NewMigrator(db.Conn(), logger)

	if migrateDown {
		version, err := migrator.Rollback(ctx, migrations.All)
		if err != nil {
			logger.Error("Failed to roll back migration", zap.Error(err))
			return err
		}
		if version == 0 {
			logger.Info("No migrations to roll back")
		} else {
			logger.Info("Successfully rolled back migration", zap.Int("version", version))
		}
		return nil
	}

	applied, err := migrator.Migrate(ctx, migrations.All)
	if err != nil {
		logger.Error("Failed to apply migrations", zap.Error(err))
		return err
	}

	logger.Info("All migrations completed successfully", zap.Int("applied", applied))
	return nil
}
