package processing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spacesedan/feedsync/internal/models"
	"github.com/spacesedan/feedsync/internal/normalize"
	"github.com/spacesedan/feedsync/internal/sentiment"
	"github.com/spacesedan/feedsync/internal/translate"
)

func testScorer() *sentiment.Scorer {
	return sentiment.NewScorer(
		sentiment.NewLexicon([]string{"good"}),
		sentiment.NewLexicon([]string{"bad"}),
	)
}

// echoTranslator tags the text so tests can see translation happened.
var echoTranslator = translate.Func(func(_ context.Context, text, lang string) (string, error) {
	return fmt.Sprintf("[%s->en] %s", lang, text), nil
})

var downTranslator = translate.Func(func(_ context.Context, _, _ string) (string, error) {
	return "", fmt.Errorf("%w: connection refused", translate.ErrTranslationUnavailable)
})

func TestProcessor_Process_EnglishRecord(t *testing.T) {
	p := NewProcessor(testScorer(), downTranslator) // must not be called for "en"

	record := models.FeedbackRecord{
		FeedbackID:   "FB601",
		Language:     "en",
		FeedbackText: "The new interface is good and intuitive",
		Timestamp:    "2023-03-21T08:00:00Z",
	}

	got, err := p.Process(context.Background(), record)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if got.TranslatedText != record.FeedbackText {
		t.Errorf("TranslatedText = %q, want original text", got.TranslatedText)
	}
	if got.SentimentScore != 0.14 {
		t.Errorf("SentimentScore = %v, want 0.14", got.SentimentScore)
	}
	if got.ScoreWasProvided {
		t.Error("ScoreWasProvided = true, want false")
	}
	if got.NormalizedTimestamp != "2023-03-21T08:00:00Z" {
		t.Errorf("NormalizedTimestamp = %q, want unchanged canonical form", got.NormalizedTimestamp)
	}
	if got.PositiveWords != 1 || got.NegativeWords != 0 || got.TotalWords != 7 {
		t.Errorf("breakdown = P%d/N%d/T%d, want P1/N0/T7",
			got.PositiveWords, got.NegativeWords, got.TotalWords)
	}
}

func TestProcessor_Process_TranslatesNonEnglish(t *testing.T) {
	p := NewProcessor(testScorer(), echoTranslator)

	record := models.FeedbackRecord{
		FeedbackID:   "FB602",
		Language:     "es",
		FeedbackText: "La aplicación es buena",
		Timestamp:    "2023-03-21T10:00:00+02:00",
	}

	got, err := p.Process(context.Background(), record)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if got.TranslatedText != "[es->en] La aplicación es buena" {
		t.Errorf("TranslatedText = %q, want translated text", got.TranslatedText)
	}
	if got.FeedbackText != record.FeedbackText {
		t.Errorf("FeedbackText = %q, want original preserved", got.FeedbackText)
	}
	if got.NormalizedTimestamp != "2023-03-21T08:00:00Z" {
		t.Errorf("NormalizedTimestamp = %q, want 2023-03-21T08:00:00Z", got.NormalizedTimestamp)
	}
}

func TestProcessor_Process_SuppliedScoreKept(t *testing.T) {
	p := NewProcessor(testScorer(), echoTranslator)

	score := -0.5
	record := models.FeedbackRecord{
		FeedbackID:     "FB603",
		Language:       "en",
		FeedbackText:   "good good good",
		SentimentScore: &score,
		Timestamp:      "2023-03-21T08:00:00Z",
	}

	got, err := p.Process(context.Background(), record)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if got.SentimentScore != -0.5 {
		t.Errorf("SentimentScore = %v, want supplied -0.5", got.SentimentScore)
	}
	if !got.ScoreWasProvided {
		t.Error("ScoreWasProvided = false, want true")
	}
}

func TestProcessor_Process_TranslationFailure(t *testing.T) {
	p := NewProcessor(testScorer(), downTranslator)

	record := models.FeedbackRecord{
		FeedbackID:   "FB604",
		Language:     "de",
		FeedbackText: "schlecht",
		Timestamp:    "2023-03-21T08:00:00Z",
	}

	_, err := p.Process(context.Background(), record)
	if !errors.Is(err, translate.ErrTranslationUnavailable) {
		t.Errorf("error = %v, want ErrTranslationUnavailable", err)
	}
}

func TestProcessor_Process_MalformedTimestamp(t *testing.T) {
	p := NewProcessor(testScorer(), echoTranslator)

	record := models.FeedbackRecord{
		FeedbackID:   "FB605",
		Language:     "en",
		FeedbackText: "good",
		Timestamp:    "2023-13-99T99:00:00Z",
	}

	_, err := p.Process(context.Background(), record)
	if !errors.Is(err, normalize.ErrMalformedTimestamp) {
		t.Errorf("error = %v, want ErrMalformedTimestamp", err)
	}
}

func TestProcessor_ProcessBatch_PreservesOrder(t *testing.T) {
	p := NewProcessor(testScorer(), echoTranslator).WithWorkers(4)

	records := make([]models.FeedbackRecord, 0, 20)
	for i := 1; i <= 20; i++ {
		records = append(records, models.FeedbackRecord{
			FeedbackID:   fmt.Sprintf("FB%03d", i),
			Language:     "en",
			FeedbackText: "good stuff",
			Timestamp:    "2023-03-21T08:00:00Z",
		})
	}

	result := p.ProcessBatch(context.Background(), records)

	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", result.Failures)
	}
	if len(result.Feedbacks) != 20 {
		t.Fatalf("got %d feedbacks, want 20", len(result.Feedbacks))
	}
	for i, feedback := range result.Feedbacks {
		want := fmt.Sprintf("FB%03d", i+1)
		if feedback.FeedbackID != want {
			t.Errorf("feedback[%d] = %s, want %s (input order)", i, feedback.FeedbackID, want)
		}
	}
}

func TestProcessor_ProcessBatch_FailureIsolation(t *testing.T) {
	// Translator that fails only for German records.
	flaky := translate.Func(func(_ context.Context, text, lang string) (string, error) {
		if lang == "de" {
			return "", translate.ErrTranslationUnavailable
		}
		return text, nil
	})
	p := NewProcessor(testScorer(), flaky)

	records := []models.FeedbackRecord{
		{FeedbackID: "FB601", Language: "en", FeedbackText: "good", Timestamp: "2023-03-21T08:00:00Z"},
		{FeedbackID: "FB602", Language: "de", FeedbackText: "schlecht", Timestamp: "2023-03-21T08:10:00Z"},
		{FeedbackID: "FB603", Language: "en", FeedbackText: "bad", Timestamp: "not-a-timestamp"},
		{FeedbackID: "FB604", Language: "fr", FeedbackText: "bien", Timestamp: "2023-03-21T08:30:00Z"},
	}

	result := p.ProcessBatch(context.Background(), records)

	if len(result.Feedbacks) != 2 {
		t.Fatalf("got %d feedbacks, want 2", len(result.Feedbacks))
	}
	if result.Feedbacks[0].FeedbackID != "FB601" || result.Feedbacks[1].FeedbackID != "FB604" {
		t.Errorf("surviving records = %s, %s; want FB601, FB604",
			result.Feedbacks[0].FeedbackID, result.Feedbacks[1].FeedbackID)
	}

	if len(result.Failures) != 2 {
		t.Fatalf("got %d failures %v, want 2", len(result.Failures), result.Failures)
	}
	stages := map[string]string{}
	for _, failure := range result.Failures {
		stages[failure.FeedbackID] = failure.Stage
	}
	if stages["FB602"] != "translation" {
		t.Errorf("FB602 stage = %q, want translation", stages["FB602"])
	}
	if stages["FB603"] != "timestamp" {
		t.Errorf("FB603 stage = %q, want timestamp", stages["FB603"])
	}
}

func TestProcessor_Process_Deterministic(t *testing.T) {
	p := NewProcessor(testScorer(), echoTranslator)

	record := models.FeedbackRecord{
		FeedbackID:   "FB601",
		Language:     "es",
		FeedbackText: "muy good",
		Timestamp:    "2023-03-21T10:00:00+02:00",
	}

	first, err := p.Process(context.Background(), record)
	if err != nil {
		t.Fatalf("first Process failed: %v", err)
	}
	second, err := p.Process(context.Background(), record)
	if err != nil {
		t.Fatalf("second Process failed: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Process not deterministic (-first +second):\n%s", diff)
	}
}
