package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/feedsync/internal/clients"
	"github.com/spacesedan/feedsync/internal/clients/kafka_client"
	"github.com/spacesedan/feedsync/internal/models"
	"github.com/spacesedan/feedsync/internal/processing"
	"github.com/spacesedan/feedsync/internal/report"
	"github.com/spacesedan/feedsync/internal/utils"
	"github.com/spacesedan/feedsync/internal/validation"
)

var (
	feedbackValidator = validation.NewValidator()
	batchProcessor    *processing.Processor
)

// SetProcessor wires the processor built in main (lexicons + translator
// choice live there).
func SetProcessor(p *processing.Processor) {
	batchProcessor = p
}

// StartFeedbackConsumer consumes raw feedback batches, validates them, runs
// the normalization pipeline, and publishes processed batches. A batch that
// fails validation is rejected whole; a translator outage pauses consumption
// via the gate instead of burning records.
func StartFeedbackConsumer(ctx context.Context, consumer *kafka.Consumer, gate *TranslatorGate) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer)

	slog.Info("[FeedbackConsumer] Listening for messages...")

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[FeedbackConsumer] Stopping consumer...")
			return
		default:
			if !gate.Healthy() {
				slog.Info("[FeedbackConsumer] Translator unavailable, pausing consumption")
				gate.WaitHealthy(ctx)
				continue
			}

			msg, err := iterator.Next()
			if err != nil {
				utils.HandleConsumerError(err)
				continue
			}

			var batch models.FeedbackBatch
			if err := utils.DeserializeFromJSON(msg.Value, &batch); err != nil {
				utils.HandleConsumerError(err)
				continue
			}

			utils.TrackMessage(batch.BatchID, msg)
			handleBatch(ctx, committer, batch)
		}
	}
}

func handleBatch(ctx context.Context, committer *kafka_client.KafkaCommitHandler, batch models.FeedbackBatch) {
	validationReport := feedbackValidator.Validate(batch.Records)
	if !validationReport.Passed {
		builder := report.NewBuilder(batch.BatchID)
		slog.Warn("[FeedbackConsumer] Batch failed validation, rejecting",
			slog.String("batch_id", batch.BatchID),
			slog.Int("errors", len(validationReport.Errors)))
		slog.Debug("[FeedbackConsumer] Validation report",
			slog.String("report", builder.ValidationReport(validationReport)))
		commitBatch(committer, batch.BatchID)
		return
	}

	records, err := feedbackValidator.Canonicalize(batch.Records)
	if err != nil {
		slog.Error("[FeedbackConsumer] Failed to canonicalize validated batch",
			slog.String("batch_id", batch.BatchID),
			slog.String("error", err.Error()))
		commitBatch(committer, batch.BatchID)
		return
	}

	records = dropAlreadyProcessed(ctx, records)
	if len(records) == 0 {
		slog.Info("[FeedbackConsumer] Entire batch already processed, skipping",
			slog.String("batch_id", batch.BatchID))
		commitBatch(committer, batch.BatchID)
		return
	}

	result := batchProcessor.ProcessBatch(ctx, records)

	processed := models.ProcessedBatch{
		BatchID:   batch.BatchID,
		Feedbacks: result.Feedbacks,
		Failures:  result.Failures,
	}

	var publishErr error
	for i := 0; i < 3; i++ {
		publishErr = kafka_client.PublishToKafka(ctx,
			kafka_client.KAFKA_TOPIC_FEEDBACK_PROCESSED, batch.BatchID, processed)
		if publishErr == nil {
			break
		}
		slog.Warn("[FeedbackConsumer] Batch publishing failed",
			slog.Int("attempt", i+1),
			slog.String("error", publishErr.Error()))
		time.Sleep(2 * time.Second)
	}
	if publishErr != nil {
		// Leave the offset uncommitted so the batch is redelivered.
		return
	}

	commitBatch(committer, batch.BatchID)
}

// dropAlreadyProcessed consults the Valkey dedup set when it is initialized;
// without it every record passes through (uniqueness stays optional).
func dropAlreadyProcessed(ctx context.Context, records []models.FeedbackRecord) []models.FeedbackRecord {
	vc := clients.MaybeValkeyClient()
	if vc == nil {
		return records
	}

	kept := records[:0]
	for _, record := range records {
		if vc.IsProcessed(ctx, record.FeedbackID) {
			slog.Info("[FeedbackConsumer] Skipping already-processed feedback",
				slog.String("feedback_id", record.FeedbackID))
			continue
		}
		kept = append(kept, record)
	}
	return kept
}

func commitBatch(committer *kafka_client.KafkaCommitHandler, batchID string) {
	msg, found := utils.GetMessageForBatch(batchID)
	if !found {
		return
	}
	if err := committer.Commit(msg); err != nil {
		slog.Warn("[FeedbackConsumer] Failed to commit offset",
			slog.String("error", err.Error()))
	}
}
