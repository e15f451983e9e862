package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/spacesedan/feedsync/config"
	"github.com/spacesedan/feedsync/internal/clients/kafka_client"
	"github.com/spacesedan/feedsync/internal/ingest"
	"github.com/spacesedan/feedsync/internal/logging"
	"github.com/spacesedan/feedsync/internal/models"
)

func main() {
	inputPath := flag.String("input", "", "CSV or JSON feedback file to publish")
	source := flag.String("source", "file", "origin tag stamped on the batch")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	if *inputPath == "" {
		slog.Error("[Producer] -input is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		slog.Error("[Producer] Failed to read input file",
			slog.String("path", *inputPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	records, err := ingest.Parse(data)
	if err != nil {
		slog.Error("[Producer] Failed to parse input file",
			slog.String("path", *inputPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

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

	batch := models.FeedbackBatch{
		BatchID: uuid.NewString(),
		Source:  *source,
		Records: records,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := kafka_client.PublishToKafka(ctx,
		kafka_client.KAFKA_TOPIC_FEEDBACK_RAW, batch.BatchID, batch); err != nil {
		slog.Error("[Producer] Failed to publish batch",
			slog.String("batch_id", batch.BatchID),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("[Producer] Published feedback batch",
		slog.String("batch_id", batch.BatchID),
		slog.Int("records", len(records)))
}
