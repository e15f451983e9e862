package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/spacesedan/feedsync/internal/clients"
	"github.com/spacesedan/feedsync/internal/models"
)

const FEEDBACK_TABLE_NAME = "ProcessedFeedback"

var dbClient *dynamodb.Client

func InitDynamoDB() {
	dbClient = clients.GetDynamoDBClient()
}

// BatchInsertProcessedFeedback writes a processed batch in chunks of 25 (the
// BatchWriteItem ceiling), retrying unprocessed items with backoff.
func BatchInsertProcessedFeedback(ctx context.Context, batchID string, feedbacks []models.ProcessedFeedback) error {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	const maxBatchSize = 25
	for i := 0; i < len(feedbacks); i += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
			end := i + maxBatchSize
			if end > len(feedbacks) {
				end = len(feedbacks)
			}

			writeRequests := make([]types.WriteRequest, 0, maxBatchSize)
			for _, feedback := range feedbacks[i:end] {
				writeRequests = append(writeRequests, types.WriteRequest{
					PutRequest: &types.PutRequest{
						Item: FeedbackToDynamoDBItem(batchID, feedback),
					},
				})
			}

			out, err := dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					FEEDBACK_TABLE_NAME: writeRequests,
				},
			})
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to batch write feedback: %w", err)
			}

			retryCount := 0
			backoff := 500 * time.Millisecond
			for len(out.UnprocessedItems) > 0 && retryCount < 3 {
				time.Sleep(backoff)
				backoff *= 2

				slog.Warn("[DynamoDB] Retrying unprocessed feedback items...",
					slog.Int("attempt", retryCount+1),
					slog.Int("remaining", len(out.UnprocessedItems[FEEDBACK_TABLE_NAME])))

				out, err = dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
					RequestItems: out.UnprocessedItems,
				})
				if err != nil {
					return fmt.Errorf("[DynamoDB] Retry error: %w", err)
				}

				retryCount++
			}

			if len(out.UnprocessedItems) > 0 {
				slog.Error("[DynamoDB] Some feedback items failed after retries",
					slog.Int("remaining", len(out.UnprocessedItems[FEEDBACK_TABLE_NAME])))
			}
		}
	}

	slog.Info("[DynamoDB] Successfully stored processed feedback",
		slog.String("batch_id", batchID),
		slog.Int("count", len(feedbacks)))
	return nil
}

// GetAllProcessedFeedback scans the table back into domain models, mostly
// for report regeneration and backfills.
func GetAllProcessedFeedback(ctx context.Context) ([]models.ProcessedFeedback, error) {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	var feedbacks []models.ProcessedFeedback
	input := &dynamodb.ScanInput{
		TableName: aws.String(FEEDBACK_TABLE_NAME),
	}

	paginator := dynamodb.NewScanPaginator(dbClient, input)

	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Scan for feedback failed: %w", err)
		}
		var page []models.ProcessedFeedback
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			slog.Error("[DynamoDB] Unable to unmarshal feedback page", slog.String("error", err.Error()))
			return nil, err
		}
		feedbacks = append(feedbacks, page...)
	}

	slog.Info("[DynamoDB] Successfully retrieved feedback", slog.Int("count", len(feedbacks)))
	return feedbacks, nil
}

func FeedbackToDynamoDBItem(batchID string, feedback models.ProcessedFeedback) map[string]types.AttributeValue {
	item := make(map[string]types.AttributeValue)

	item["feedback_id"] = &types.AttributeValueMemberS{Value: feedback.FeedbackID}
	item["batch_id"] = &types.AttributeValueMemberS{Value: batchID}
	item["language"] = &types.AttributeValueMemberS{Value: feedback.Language}
	item["feedback_text"] = &types.AttributeValueMemberS{Value: feedback.FeedbackText}
	item["translated_text"] = &types.AttributeValueMemberS{Value: feedback.TranslatedText}
	item["sentiment_score"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%.2f", feedback.SentimentScore)}
	item["timestamp"] = &types.AttributeValueMemberS{Value: feedback.NormalizedTimestamp}
	item["created_at"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix())}

	if feedback.ScoreWasProvided {
		item["score_was_provided"] = &types.AttributeValueMemberBOOL{Value: true}
	}
	if feedback.SentimentCrossLabel != "" {
		item["sentiment_cross_label"] = &types.AttributeValueMemberS{Value: feedback.SentimentCrossLabel}
	}

	return item
}
