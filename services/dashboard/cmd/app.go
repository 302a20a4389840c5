package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"itoffers/common/database"
	"itoffers/services/dashboard/internal/config"
	"itoffers/services/dashboard/internal/events"
	"itoffers/services/dashboard/internal/loader"
	"itoffers/services/dashboard/internal/models"
	"itoffers/services/dashboard/internal/processor"
	"itoffers/services/dashboard/internal/sampling"
)

func newClickHouse(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*database.Database, error) {
	return database.New(ctx, database.Options{
		Addr:            cfg.ClickHouseAddr,
		MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
		Username:        cfg.ClickHouseUsername,
		Password:        cfg.ClickHousePassword,
		Database:        cfg.ClickHouseDatabase,
	}, logger)
}

func newLoader(cfg *config.Config, logger *zap.Logger) *loader.Loader {
	return loader.New(logger.Named("loader"), loader.Options{TechnologyDelimiters: cfg.TechnologyDelimiters})
}

func newPublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	if !cfg.EventsEnabled {
		return events.NewNoopPublisher(logger), nil
	}
	conn, err := events.Connect(cfg.NATSURL, cfg.NATSConnTimeout, "itoffers-dashboard")
	if err != nil {
		return nil, err
	}
	return events.NewPublisher(logger.Named("events"), conn), nil
}

func newGenerator(cfg *config.Config) *sampling.Generator {
	if cfg.SampleSeeded {
		return sampling.NewGenerator(cfg.SampleSeed)
	}
	return sampling.NewUnseeded()
}

// loadDataset resolves the configured snapshots and runs the pipeline.
func loadDataset(ctx context.Context, cfg *config.Config, logger *zap.Logger, proc *processor.DatasetProcessor) (models.Dataset, error) {
	switch cfg.DatasetSource {
	case config.SourceClickHouse:
		db, err := newClickHouse(ctx, cfg, logger)
		if err != nil {
			return models.Dataset{}, err
		}
		defer db.Close()

		snapshots, err := processor.ClickHouseSnapshots(ctx, db.Conn())
		if err != nil {
			return models.Dataset{}, err
		}
		return proc.Process(ctx, config.SourceClickHouse, snapshots)

	case config.SourceCSV:
		files, err := cfg.SnapshotFiles()
		if err != nil {
			return models.Dataset{}, err
		}
		return proc.Process(ctx, config.SourceCSV, processor.CSVSnapshots(files))

	default:
		return models.Dataset{}, fmt.Errorf("unknown dataset source %q", cfg.DatasetSource)
	}
}
