package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"itoffers/services/dashboard/internal/config"
	"itoffers/services/dashboard/internal/loader"
	"itoffers/services/dashboard/internal/processor"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the CSV snapshots into the ClickHouse offer_snapshots table",
	Long: `Reads the CSV snapshots named by DATASET_MANIFEST or found in DATASET_DIR,
validates them like a normal load, and inserts their source columns into
offer_snapshots so later runs can use DATASET_SOURCE=clickhouse.`,
	RunE: runImport,
}

func runImport(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	files, err := cfg.SnapshotFiles()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	table, err := newLoader(cfg, logger).Load(ctx, processor.CSVSnapshots(files))
	if err != nil {
		logger.Error("Failed to load snapshots", zap.Error(err))
		return err
	}

	db, err := newClickHouse(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := loader.ImportTable(ctx, db.Conn(), table)
	if err != nil {
		logger.Error("Failed to import snapshots", zap.Error(err))
		return err
	}

	logger.Info("Imported snapshots",
		zap.Int("snapshots", len(files)),
		zap.Int("offers", n))
	return nil
}
