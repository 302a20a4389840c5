package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"itoffers/common/cache"
	"itoffers/common/cache/memory"
	"itoffers/common/cache/redis"
	"itoffers/common/telemetry"
	"itoffers/services/dashboard/internal/api"
	"itoffers/services/dashboard/internal/config"
	"itoffers/services/dashboard/internal/derive"
	"itoffers/services/dashboard/internal/events"
	"itoffers/services/dashboard/internal/models"
	"itoffers/services/dashboard/internal/processor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the dataset and serve the JSON API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := fx.New(
			fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
				return &fxevent.ZapLogger{Logger: logger}
			}),
			fx.Provide(
				config.LoadConfig,
				newProductionLogger,
				newLoader,
				newServePublisher,
				processor.NewDatasetProcessor,
				newServeDataset,
				newServeCache,
				newServer,
			),
			fx.Invoke(
				registerTracing,
				registerServer,
			),
		)

		if err := app.Start(cmd.Context()); err != nil {
			return err
		}

		<-app.Done()

		return app.Stop(context.Background())
	},
}

func newProductionLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func newServePublisher(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			publisher.Close()
			return nil
		},
	})
	return publisher, nil
}

func newServeDataset(cfg *config.Config, logger *zap.Logger, proc *processor.DatasetProcessor) (models.Dataset, error) {
	return loadDataset(context.Background(), cfg, logger, proc)
}

// newServeCache always keeps an in-process tier and adds Redis behind it
// when enabled and reachable.
func newServeCache(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) cache.Cache {
	opts := cache.DefaultOptions()
	opts.DefaultTTL = cfg.CacheTTL
	opts.MaxEntries = cfg.CacheMaxEntries
	opts.RedisURL = cfg.RedisAddr
	opts.RedisPassword = cfg.RedisPassword
	opts.RedisDB = cfg.RedisDB

	tiers := []cache.Cache{memory.New(opts)}
	if cfg.RedisEnabled {
		rc := redis.New(opts)
		if err := rc.Ping(context.Background()); err != nil {
			logger.Warn("Redis unavailable, serving from memory cache only", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			rc.Close()
		} else {
			tiers = append(tiers, rc)
		}
	}

	c := cache.NewTiered(cfg.CacheTTL, tiers...)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return c.Close()
		},
	})
	return c
}

func newServer(cfg *config.Config, logger *zap.Logger, ds models.Dataset, c cache.Cache) (*api.Server, error) {
	policy, err := derive.ParseBothPolicy(cfg.BothSalaryPolicy)
	if err != nil {
		return nil, err
	}
	return api.New(logger.Named("api"), ds, c, api.Options{
		Addr:         cfg.HTTPAddr,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		CacheTTL:     cfg.CacheTTL,
		BothPolicy:   policy,
		SampleSize:   cfg.SampleSize,
		Generator:    newGenerator(cfg),
	}), nil
}

func registerTracing(lc fx.Lifecycle, cfg *config.Config) error {
	shutdown, err := telemetry.InitTracer(context.Background(), telemetry.TracerConfig{
		ServiceName:  "itoffers-dashboard",
		CollectorURL: cfg.OTELCollectorURL,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{OnStop: shutdown})
	return nil
}

func registerServer(lc fx.Lifecycle, srv *api.Server, logger *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("API server failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
