package consumers

import (
	"context"
	"log/slog"

	"bullpen/internal/config"
	"bullpen/internal/entity"
	"bullpen/internal/messaging"
	"bullpen/internal/models"
	"bullpen/internal/search"
)

const queueGroup = "bullpen-consumers"

// ConsumerService keeps the search index and downstream listeners in sync
// with the bus events published by the API
type ConsumerService struct {
	nats     *messaging.NATSClient
	stores   *entity.Stores
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	esClient, err := search.NewElasticsearchClient(cfg.Search)
	if err != nil {
		slog.Warn("Elasticsearch unavailable, index sync disabled", "error", err)
		esClient = nil
	}

	entityClient := entity.NewClient(cfg.Entity)
	stores := entity.NewStores(entityClient)

	handlers := NewHandlers(stores, esClient)

	return &ConsumerService{
		nats:     natsClient,
		stores:   stores,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	for _, subject := range []string{
		models.EventEventApproved,
		models.EventEventRejected,
		models.EventEventUpdated,
		models.EventEventCancelled,
	} {
		if _, err := cs.nats.SubscribeQueue(subject, queueGroup, cs.handlers.HandleEventChanged); err != nil {
			return err
		}
	}

	if _, err := cs.nats.SubscribeQueue(models.EventEventDeleted, queueGroup, cs.handlers.HandleEventDeleted); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue(models.EventRefundProcessed, queueGroup, cs.handlers.HandleRefundProcessed); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue(models.EventAttendeePromoted, queueGroup, cs.handlers.HandleAttendeePromoted); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue(models.EventNotificationsSent, queueGroup, cs.handlers.HandleNotificationsSent); err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
			return err
		}
	}

	return nil
}
