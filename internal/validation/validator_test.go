package validation

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spacesedan/feedsync/internal/models"
)

func validRow(row int) models.RawRecord {
	return models.RawRecord{
		RowIndex: row,
		Fields: map[string]any{
			"feedback_id":   fmt.Sprintf("FB%03d", row),
			"language":      "en",
			"feedback_text": "The new interface is good and intuitive",
			"timestamp":     "2023-03-21T08:00:00Z",
		},
	}
}

func TestValidator_Validate_FullyValidBatch(t *testing.T) {
	v := NewValidator()

	records := make([]models.RawRecord, 0, 10)
	for i := 1; i <= 10; i++ {
		records = append(records, validRow(i))
	}

	report := v.Validate(records)

	if !report.Passed {
		t.Errorf("Passed = false, want true; errors: %v", report.Errors)
	}
	if len(report.Errors) != 0 {
		t.Errorf("Errors = %v, want empty", report.Errors)
	}
	if report.TotalRecords != 10 {
		t.Errorf("TotalRecords = %d, want 10", report.TotalRecords)
	}
	for _, fs := range report.FieldStatuses {
		if fs.Status != "valid" {
			t.Errorf("field %s status = %q, want valid", fs.Field, fs.Status)
		}
	}
}

func TestValidator_Validate_MissingTimestampRow3(t *testing.T) {
	v := NewValidator()

	records := make([]models.RawRecord, 0, 10)
	for i := 1; i <= 10; i++ {
		record := validRow(i)
		if i == 3 {
			delete(record.Fields, "timestamp")
		}
		records = append(records, record)
	}

	report := v.Validate(records)

	if report.Passed {
		t.Error("Passed = true, want false")
	}
	want := []models.ValidationError{
		{RowIndex: 3, Field: "timestamp", Reason: models.ReasonMissing},
	}
	if diff := cmp.Diff(want, report.Errors); diff != "" {
		t.Errorf("Errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidator_Validate_FieldRules(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		mutate     func(*models.RawRecord)
		wantField  string
		wantReason string
	}{
		{
			name:       "empty feedback_id",
			mutate:     func(r *models.RawRecord) { r.Fields["feedback_id"] = "" },
			wantField:  "feedback_id",
			wantReason: models.ReasonMissing,
		},
		{
			name:       "numeric feedback_id",
			mutate:     func(r *models.RawRecord) { r.Fields["feedback_id"] = json.Number("601") },
			wantField:  "feedback_id",
			wantReason: models.ReasonWrongType,
		},
		{
			name:       "missing language",
			mutate:     func(r *models.RawRecord) { delete(r.Fields, "language") },
			wantField:  "language",
			wantReason: models.ReasonMissing,
		},
		{
			name:       "uppercase language code",
			mutate:     func(r *models.RawRecord) { r.Fields["language"] = "EN" },
			wantField:  "language",
			wantReason: models.ReasonMalformedFormat,
		},
		{
			name:       "three letter language code",
			mutate:     func(r *models.RawRecord) { r.Fields["language"] = "eng" },
			wantField:  "language",
			wantReason: models.ReasonMalformedFormat,
		},
		{
			name:       "missing feedback_text",
			mutate:     func(r *models.RawRecord) { r.Fields["feedback_text"] = "" },
			wantField:  "feedback_text",
			wantReason: models.ReasonMissing,
		},
		{
			name:       "non-numeric sentiment_score",
			mutate:     func(r *models.RawRecord) { r.Fields["sentiment_score"] = "very positive" },
			wantField:  "sentiment_score",
			wantReason: models.ReasonWrongType,
		},
		{
			name:       "score above range",
			mutate:     func(r *models.RawRecord) { r.Fields["sentiment_score"] = json.Number("1.5") },
			wantField:  "sentiment_score",
			wantReason: models.ReasonOutOfRange,
		},
		{
			name:       "score below range",
			mutate:     func(r *models.RawRecord) { r.Fields["sentiment_score"] = "-1.01" },
			wantField:  "sentiment_score",
			wantReason: models.ReasonOutOfRange,
		},
		{
			name:       "unparseable timestamp",
			mutate:     func(r *models.RawRecord) { r.Fields["timestamp"] = "yesterday" },
			wantField:  "timestamp",
			wantReason: models.ReasonMalformedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRow(1)
			tt.mutate(&record)

			report := v.Validate([]models.RawRecord{record})

			if report.Passed {
				t.Fatal("Passed = true, want false")
			}
			if len(report.Errors) != 1 {
				t.Fatalf("got %d errors %v, want 1", len(report.Errors), report.Errors)
			}
			verr := report.Errors[0]
			if verr.Field != tt.wantField || verr.Reason != tt.wantReason {
				t.Errorf("error = {%s %s}, want {%s %s}",
					verr.Field, verr.Reason, tt.wantField, tt.wantReason)
			}
			if verr.RowIndex != 1 {
				t.Errorf("RowIndex = %d, want 1", verr.RowIndex)
			}
		})
	}
}

func TestValidator_Validate_BoundaryScoresAccepted(t *testing.T) {
	v := NewValidator()

	for _, score := range []string{"-1", "1", "0", "0.5"} {
		record := validRow(1)
		record.Fields["sentiment_score"] = json.Number(score)

		report := v.Validate([]models.RawRecord{record})
		if !report.Passed {
			t.Errorf("score %s rejected: %v", score, report.Errors)
		}
	}
}

func TestValidator_Validate_AccumulatesAcrossFields(t *testing.T) {
	v := NewValidator()

	// One row that is broken five ways still reports all five fields.
	record := models.RawRecord{
		RowIndex: 1,
		Fields: map[string]any{
			"language":        "english",
			"sentiment_score": json.Number("2"),
			"timestamp":       "not-a-timestamp",
		},
	}

	report := v.Validate([]models.RawRecord{record})

	if len(report.Errors) != 5 {
		t.Fatalf("got %d errors %v, want 5", len(report.Errors), report.Errors)
	}
}

func TestValidator_Canonicalize(t *testing.T) {
	v := NewValidator()

	record := validRow(1)
	record.Fields["sentiment_score"] = json.Number("0.75")

	feedbacks, err := v.Canonicalize([]models.RawRecord{record, validRow(2)})
	if err != nil {
		t.Fatalf("Canonicalize returned unexpected error: %v", err)
	}
	if len(feedbacks) != 2 {
		t.Fatalf("got %d records, want 2", len(feedbacks))
	}

	first := feedbacks[0]
	if first.FeedbackID != "FB001" || first.Language != "en" {
		t.Errorf("unexpected canonical record: %+v", first)
	}
	if first.SentimentScore == nil || *first.SentimentScore != 0.75 {
		t.Errorf("SentimentScore = %v, want 0.75", first.SentimentScore)
	}
	if feedbacks[1].SentimentScore != nil {
		t.Errorf("absent score should stay nil, got %v", *feedbacks[1].SentimentScore)
	}
}

func TestValidator_Canonicalize_RejectsInvalid(t *testing.T) {
	v := NewValidator()

	record := validRow(1)
	delete(record.Fields, "feedback_id")

	if _, err := v.Canonicalize([]models.RawRecord{record}); err == nil {
		t.Fatal("Canonicalize expected error for invalid record, got nil")
	}
}
