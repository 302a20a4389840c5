package processor

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"itoffers/common/telemetry"
	"itoffers/services/dashboard/internal/derive"
	"itoffers/services/dashboard/internal/events"
	"itoffers/services/dashboard/internal/loader"
	"itoffers/services/dashboard/internal/models"
	"itoffers/services/dashboard/internal/snapshot"
)

// DatasetProcessor runs the batch pipeline: load every snapshot, derive the
// analytic columns, select the latest month and announce the result.
type DatasetProcessor struct {
	logger    *zap.Logger
	loader    *loader.Loader
	publisher events.Publisher
	tracer    trace.Tracer
	now       func() time.Time
}

func NewDatasetProcessor(logger *zap.Logger, ld *loader.Loader, publisher events.Publisher) *DatasetProcessor {
	return &DatasetProcessor{
		logger:    logger,
		loader:    ld,
		publisher: publisher,
		tracer:    telemetry.GetTracer("itoffers/dashboard/processor"),
		now:       time.Now,
	}
}

// Process builds the dataset. Load failures are returned as they are; a
// failed announcement is only logged.
func (p *DatasetProcessor) Process(ctx context.Context, source string, snapshots []loader.Snapshot) (models.Dataset, error) {
	ctx, span := p.tracer.Start(ctx, "ProcessDataset")
	defer span.End()

	table, err := p.loader.Load(ctx, snapshots)
	if err != nil {
		span.RecordError(err)
		p.logger.Error("Failed to load dataset", zap.String("source", source), zap.Error(err))
		return models.Dataset{}, fmt.Errorf("load dataset: %w", err)
	}

	_, deriveSpan := p.tracer.Start(ctx, "DeriveColumns")
	all := derive.Apply(table)
	deriveSpan.End()

	ds := models.Dataset{
		All:      all,
		Latest:   snapshot.Latest(all),
		LoadedAt: p.now().UTC(),
	}

	span.SetAttributes(
		telemetry.String("dataset.source", source),
		telemetry.Int("offers.count", ds.All.Len()),
		telemetry.Int("offers.latest", ds.Latest.Len()),
	)
	p.logger.Info("Dataset ready",
		zap.String("source", source),
		zap.Int("offers", ds.All.Len()),
		zap.Int("latest_offers", ds.Latest.Len()),
		zap.Int("snapshots", len(snapshots)))

	if err := p.publisher.PublishDatasetLoaded(ctx, events.NewDatasetLoadedEvent(source, ds)); err != nil {
		p.logger.Warn("Failed to announce dataset", zap.Error(err))
	}

	return ds, nil
}
