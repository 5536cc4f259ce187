package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bullpen/cmd/consumers/jobs"
	"bullpen/internal/config"
	"bullpen/internal/consumers"
	"bullpen/internal/entity"
	"bullpen/internal/external"
	"bullpen/internal/logger"
	"bullpen/internal/messaging"
	"bullpen/internal/workflow"
)

func main() {
	log.Println("Starting consumers service...")

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Own NATS client id so the api and consumer binaries can coexist
	cfg.NATS.ClientID = "bullpen-consumers"

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		log.Fatalf("Failed to create consumer service: %v", err)
	}

	if err := consumerService.Start(); err != nil {
		log.Fatalf("Failed to start consumers: %v", err)
	}

	// The settlement poller runs here rather than in the API so a busy
	// request path never delays gateway sweeps
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS for jobs: %v", err)
	}

	entityClient := entity.NewClient(cfg.Entity)
	stores := entity.NewStores(entityClient)
	gatewayClient := external.NewGatewayClient(cfg.Gateway)
	notifier := workflow.NewNotifier(stores.Notifications, natsClient)
	refunds := workflow.NewRefundWorkflow(stores.Refunds, stores.Tickets, notifier, gatewayClient, natsClient)

	jobCtx, jobCancel := context.WithCancel(context.Background())
	settlementJob := jobs.NewRefundSettlementJob(refunds, cfg.SettlementInterval)
	settlementJob.Start(jobCtx)

	log.Println("Consumers service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down consumers service...")

	settlementJob.Stop()
	jobCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}

	log.Println("Consumers service stopped")
}
