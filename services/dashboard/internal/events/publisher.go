package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"itoffers/common/telemetry"
	"itoffers/services/dashboard/internal/errors"
)

var tracer = telemetry.GetTracer("itoffers/dashboard/events")

type Publisher interface {
	PublishDatasetLoaded(ctx context.Context, event DatasetLoadedEvent) error
	Close()
}

type natsConn interface {
	Publish(subject string, data []byte) error
	Close()
}

type natsPublisher struct {
	conn   natsConn
	logger *zap.Logger
}

func Connect(url string, timeout time.Duration, name string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Timeout(timeout),
		nats.Name(name),
		nats.ReconnectWait(time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, errors.Unavailable("connecting to NATS", err)
	}
	return conn, nil
}

func NewPublisher(logger *zap.Logger, conn natsConn) Publisher {
	return &natsPublisher{
		conn:   conn,
		logger: logger,
	}
}

func (p *natsPublisher) PublishDatasetLoaded(ctx context.Context, event DatasetLoadedEvent) error {
	_, span := tracer.Start(ctx, "PublishDatasetLoaded")
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling dataset loaded event", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", DatasetLoadedSubject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(DatasetLoadedSubject, data); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish dataset loaded event",
			zap.String("source", event.Source),
			zap.Error(err))
		return errors.Unavailable("publishing to NATS", err)
	}

	p.logger.Debug("published dataset loaded event",
		zap.String("subject", DatasetLoadedSubject),
		zap.Int("offers", event.TotalOffers))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

type noopPublisher struct {
	logger *zap.Logger
}

// NewNoopPublisher drops every event. It stands in when events are disabled.
func NewNoopPublisher(logger *zap.Logger) Publisher {
	return noopPublisher{logger: logger}
}

func (p noopPublisher) PublishDatasetLoaded(_ context.Context, event DatasetLoadedEvent) error {
	p.logger.Debug("events disabled, dropping dataset loaded event", zap.Int("offers", event.TotalOffers))
	return nil
}

func (noopPublisher) Close() {}
