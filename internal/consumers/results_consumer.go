package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/feedsync/internal/clients"
	"github.com/spacesedan/feedsync/internal/clients/kafka_client"
	"github.com/spacesedan/feedsync/internal/db"
	"github.com/spacesedan/feedsync/internal/models"
	"github.com/spacesedan/feedsync/internal/utils"
)

var insertBuffer = utils.NewBatchBuffer[models.ProcessedBatch]()

// StartResultsConsumer buffers processed batches and persists them to
// DynamoDB, marking their feedback IDs in the dedup cache on success.
func StartResultsConsumer(ctx context.Context, consumer *kafka.Consumer) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer)

	ticker := time.NewTicker(utils.BATCH_TIMEOUT)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if insertBuffer.HasData() {
				// Flush buffered batches before shutdown; the canceled
				// context would fail the writes.
				flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
				persistResults(flushCtx, committer)
				cancel()
			}
			return
		case <-ticker.C:
			persistResults(ctx, committer)
		default:
			msg, err := iterator.Next()
			if err != nil {
				utils.HandleConsumerError(err)
				continue
			}

			var batch models.ProcessedBatch
			if err := utils.DeserializeFromJSON(msg.Value, &batch); err != nil {
				utils.HandleConsumerError(err)
				continue
			}

			utils.TrackMessage(batch.BatchID, msg)
			insertBuffer.Add(batch)

			if insertBuffer.Size() >= utils.BATCH_SIZE {
				persistResults(ctx, committer)
			}
		}
	}
}

func persistResults(ctx context.Context, committer *kafka_client.KafkaCommitHandler) {
	if !insertBuffer.HasData() {
		return
	}
	insertBuffer.LogBatchProcessing("processed-feedback")

	batches := insertBuffer.GetAndClear()
	if len(batches) == 0 {
		return
	}

	for _, batch := range batches {
		var insertErr error
		for i := 0; i < 3; i++ {
			insertErr = db.BatchInsertProcessedFeedback(ctx, batch.BatchID, batch.Feedbacks)
			if insertErr == nil {
				break
			}
			slog.Error("[ResultsConsumer] Failed to write feedback to DB",
				slog.String("batch_id", batch.BatchID),
				slog.String("error", insertErr.Error()),
				slog.Int("attempt", i+1))
		}
		if insertErr != nil {
			continue
		}

		markProcessed(ctx, batch)

		msg, found := utils.GetMessageForBatch(batch.BatchID)
		if found {
			if err := committer.Commit(msg); err != nil {
				slog.Warn("[ResultsConsumer] Failed to commit offset",
					slog.String("error", err.Error()))
			}
		}
	}
}

func markProcessed(ctx context.Context, batch models.ProcessedBatch) {
	vc := clients.MaybeValkeyClient()
	if vc == nil {
		return
	}

	ids := make([]string, 0, len(batch.Feedbacks))
	for _, feedback := range batch.Feedbacks {
		ids = append(ids, feedback.FeedbackID)
	}
	if err := vc.MarkProcessed(ctx, ids...); err != nil {
		slog.Warn("[ResultsConsumer] Failed to mark feedback IDs processed",
			slog.String("batch_id", batch.BatchID),
			slog.String("error", err.Error()))
	}
}
