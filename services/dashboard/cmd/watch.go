package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"itoffers/services/dashboard/internal/config"
	"itoffers/services/dashboard/internal/events"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Log dataset loaded events published on NATS",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	nc, err := events.Connect(cfg.NATSURL, cfg.NATSConnTimeout, "itoffers-watch")
	if err != nil {
		return err
	}
	defer nc.Close()

	sub := events.NewSubscriber(logger, nc, func(_ context.Context, e events.DatasetLoadedEvent) error {
		logger.Info("Dataset loaded",
			zap.String("source", e.Source),
			zap.Time("loaded_at", e.LoadedAt),
			zap.Int("offers", e.TotalOffers),
			zap.Int("latest_offers", e.LatestOffers),
			zap.Time("latest_report_date", e.LatestReportDate))
		return nil
	})
	if err := sub.Subscribe(); err != nil {
		return err
	}
	defer sub.Unsubscribe()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down...")
	return nil
}
