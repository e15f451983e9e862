package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/feedsync/config"
	"github.com/spacesedan/feedsync/internal/clients"
	"github.com/spacesedan/feedsync/internal/clients/kafka_client"
	"github.com/spacesedan/feedsync/internal/consumers"
	"github.com/spacesedan/feedsync/internal/db"
	"github.com/spacesedan/feedsync/internal/logging"
	"github.com/spacesedan/feedsync/internal/monitoring"
	"github.com/spacesedan/feedsync/internal/processing"
	"github.com/spacesedan/feedsync/internal/sentiment"
	"github.com/spacesedan/feedsync/internal/translate"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		slog.Warn("[Main] Shutdown signal received")
		cancel()
	}()

	cfg := kafka_client.GetKafkaConfig()

	for {
		err := kafka_client.InitProducer(cfg)
		if err == nil {
			break
		}

		slog.Warn("Kafka init failed, retrying...", slog.String("error", err.Error()))
		time.Sleep(5 * time.Second)
	}
	defer kafka_client.CloseProducer()

	if os.Getenv("VALKEY_INIT_ADDRESS") != "" {
		clients.InitValkey()
		defer clients.CloseValkey()
	}

	db.InitDynamoDB()

	positive, negative, err := sentiment.LoadLexicons()
	if err != nil {
		slog.Error("[Main] Failed to load lexicons", slog.String("error", err.Error()))
		os.Exit(1)
	}

	processor := processing.NewProcessor(
		sentiment.NewScorer(positive, negative),
		translate.FromEnv(),
	)
	consumers.SetProcessor(processor)

	translatorHealthy := &atomic.Bool{}
	translatorHealthy.Store(true)
	go monitoring.MonitorTranslatorHealth(ctx, translatorHealthy)

	gate := consumers.NewTranslatorGate(translatorHealthy)
	kafka_client.RegisterConsumer(kafka_client.KAFKA_TOPIC_FEEDBACK_RAW,
		func(ctx context.Context, consumer *kafka.Consumer) {
			consumers.StartFeedbackConsumer(ctx, consumer, gate)
		})
	kafka_client.RegisterConsumer(kafka_client.KAFKA_TOPIC_FEEDBACK_PROCESSED, consumers.StartResultsConsumer)

	if err := kafka_client.StartConsumers(ctx, cfg); err != nil {
		slog.Error("[Main] Failed to start consumers",
			slog.String("error", err.Error()))
	}
}
