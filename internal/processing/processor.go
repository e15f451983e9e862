// Package processing orchestrates translation, scoring and timestamp
// normalization for validated feedback records.
package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/spacesedan/feedsync/internal/models"
	"github.com/spacesedan/feedsync/internal/normalize"
	"github.com/spacesedan/feedsync/internal/sentiment"
	"github.com/spacesedan/feedsync/internal/translate"
)

const defaultWorkers = 8

// Processor runs the normalization pipeline for records that already passed
// validation. Deterministic given the lexicons and the translator's output.
type Processor struct {
	scorer     *sentiment.Scorer
	translator translate.Translator
	workers    int
}

func NewProcessor(scorer *sentiment.Scorer, translator translate.Translator) *Processor {
	return &Processor{
		scorer:     scorer,
		translator: translator,
		workers:    defaultWorkers,
	}
}

// WithWorkers bounds batch concurrency; values below 1 mean sequential.
func (p *Processor) WithWorkers(n int) *Processor {
	if n < 1 {
		n = 1
	}
	p.workers = n
	return p
}

// Process runs the pipeline steps for one record, in order, none skippable:
// translation decision, score pass-through or computation, timestamp
// normalization, assembly. A user-supplied score is never overwritten.
func (p *Processor) Process(ctx context.Context, record models.FeedbackRecord) (models.ProcessedFeedback, error) {
	translated := record.FeedbackText
	if record.Language != "en" {
		var err error
		translated, err = p.translator.Translate(ctx, record.FeedbackText, record.Language)
		if err != nil {
			return models.ProcessedFeedback{}, fmt.Errorf("translating %s: %w", record.FeedbackID, err)
		}
	}

	// Count breakdown on the translated text either way; the detailed
	// report shows the calculation even for supplied scores.
	scored := p.scorer.Score(translated)

	score := scored.Score
	provided := record.SentimentScore != nil
	if provided {
		score = *record.SentimentScore
	}

	normalized, err := normalize.NormalizeTimestamp(record.Timestamp)
	if err != nil {
		return models.ProcessedFeedback{}, fmt.Errorf("normalizing %s: %w", record.FeedbackID, err)
	}

	return models.ProcessedFeedback{
		FeedbackID:          record.FeedbackID,
		Language:            record.Language,
		FeedbackText:        record.FeedbackText,
		TranslatedText:      translated,
		SentimentScore:      score,
		ScoreWasProvided:    provided,
		NormalizedTimestamp: normalized,
		SentimentCrossLabel: sentiment.CrossCheckLabel(translated),
		PositiveWords:       scored.Positive,
		NegativeWords:       scored.Negative,
		TotalWords:          scored.TotalWords,
	}, nil
}

// ProcessBatch processes records concurrently; records are independent, so
// completion order does not matter, but the output preserves input order.
// A per-record failure is recorded and the rest of the batch continues.
func (p *Processor) ProcessBatch(ctx context.Context, records []models.FeedbackRecord) models.BatchResult {
	type slot struct {
		feedback models.ProcessedFeedback
		err      error
	}
	slots := make([]slot, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			feedback, err := p.Process(gctx, record)
			slots[i] = slot{feedback: feedback, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := models.BatchResult{
		Feedbacks: make([]models.ProcessedFeedback, 0, len(records)),
	}
	for i, s := range slots {
		if s.err != nil {
			slog.Warn("[Processor] Record failed, continuing batch",
				slog.String("feedback_id", records[i].FeedbackID),
				slog.String("stage", failureStage(s.err)),
				slog.String("error", s.err.Error()))
			result.Failures = append(result.Failures, models.RecordFailure{
				FeedbackID: records[i].FeedbackID,
				Stage:      failureStage(s.err),
				Error:      s.err.Error(),
			})
			continue
		}
		result.Feedbacks = append(result.Feedbacks, s.feedback)
	}
	return result
}

func failureStage(err error) string {
	switch {
	case errors.Is(err, translate.ErrTranslationUnavailable):
		return "translation"
	case errors.Is(err, normalize.ErrMalformedTimestamp):
		return "timestamp"
	default:
		return "processing"
	}
}
