package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, event DatasetLoadedEvent) error

type Subscriber struct {
	logger  *zap.Logger
	nc      *nats.Conn
	handler HandlerFunc
	sub     *nats.Subscription
}

func NewSubscriber(logger *zap.Logger, nc *nats.Conn, handler HandlerFunc) *Subscriber {
	return &Subscriber{
		logger:  logger,
		nc:      nc,
		handler: handler,
	}
}

func (s *Subscriber) Subscribe() error {
	sub, err := s.nc.Subscribe(DatasetLoadedSubject, s.handleMessage)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", DatasetLoadedSubject, err)
	}

	s.sub = sub
	s.logger.Info("Registered NATS subscriptions", zap.String("subject", DatasetLoadedSubject))
	return nil
}

func (s *Subscriber) Unsubscribe() error {
	if s.sub == nil {
		return nil
	}
	return s.sub.Unsubscribe()
}

func (s *Subscriber) handleMessage(msg *nats.Msg) {
	ctx, span := tracer.Start(context.Background(), "handleDatasetLoaded")
	defer span.End()

	var event DatasetLoadedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		span.RecordError(err)
		s.logger.Error("Failed to decode dataset loaded event",
			zap.Error(err),
			zap.String("subject", msg.Subject),
		)
		return
	}

	if err := s.handler(ctx, event); err != nil {
		span.RecordError(err)
		s.logger.Error("Failed to handle dataset loaded event",
			zap.Error(err),
			zap.String("subject", msg.Subject),
		)
	}
}
