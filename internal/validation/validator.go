// Package validation enforces the feedback schema with row-level error
// reporting. Data errors are values in the report, never error returns.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spacesedan/feedsync/internal/models"
	"github.com/spacesedan/feedsync/internal/normalize"
)

// ErrNotValidated is returned by Canonicalize when a record that should have
// been rejected reaches canonicalization.
var ErrNotValidated = errors.New("record did not pass validation")

// ISO 639-1: lowercase two-letter code.
var languagePattern = regexp.MustCompile(`^[a-z]{2}$`)

// Validator checks raw records against the feedback schema.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks every field of every row. Errors are accumulated, never
// short-circuited, so one report can list multiple simultaneous problems.
// Pure function: no side effects, no error returns for data problems.
func (v *Validator) Validate(records []models.RawRecord) *models.ValidationReport {
	report := &models.ValidationReport{
		TotalRecords: len(records),
		Errors:       []models.ValidationError{},
	}

	fieldFailed := make(map[string]string, len(ingestSchemaFields))

	for _, record := range records {
		for _, check := range []func(models.RawRecord) *models.ValidationError{
			v.checkFeedbackID,
			v.checkLanguage,
			v.checkFeedbackText,
			v.checkSentimentScore,
			v.checkTimestamp,
		} {
			if verr := check(record); verr != nil {
				report.Errors = append(report.Errors, *verr)
				if fieldFailed[verr.Field] == "" || verr.Reason == models.ReasonMissing {
					fieldFailed[verr.Field] = verr.Reason
				}
			}
		}
	}

	for _, field := range ingestSchemaFields {
		status := "valid"
		switch fieldFailed[field] {
		case models.ReasonMissing:
			status = "missing"
		case "":
		default:
			status = "invalid"
		}
		report.FieldStatuses = append(report.FieldStatuses, models.FieldStatus{Field: field, Status: status})
	}

	report.Passed = len(report.Errors) == 0
	return report
}

var ingestSchemaFields = []string{"feedback_id", "language", "feedback_text", "sentiment_score", "timestamp"}

func (v *Validator) checkFeedbackID(record models.RawRecord) *models.ValidationError {
	return checkRequiredString(record, "feedback_id")
}

func (v *Validator) checkLanguage(record models.RawRecord) *models.ValidationError {
	if verr := checkRequiredString(record, "language"); verr != nil {
		return verr
	}
	lang := record.Fields["language"].(string)
	if !languagePattern.MatchString(lang) {
		return &models.ValidationError{
			RowIndex: record.RowIndex,
			Field:    "language",
			Reason:   models.ReasonMalformedFormat,
			Detail:   fmt.Sprintf("%q is not an ISO 639-1 code", lang),
		}
	}
	return nil
}

func (v *Validator) checkFeedbackText(record models.RawRecord) *models.ValidationError {
	return checkRequiredString(record, "feedback_text")
}

// checkSentimentScore: absence is not an error, it triggers computation
// downstream. A present score must be numeric and within [-1, 1].
func (v *Validator) checkSentimentScore(record models.RawRecord) *models.ValidationError {
	value, ok := record.Fields["sentiment_score"]
	if !ok || value == nil {
		return nil
	}

	score, err := numericValue(value)
	if err != nil {
		return &models.ValidationError{
			RowIndex: record.RowIndex,
			Field:    "sentiment_score",
			Reason:   models.ReasonWrongType,
			Detail:   "score must be a number",
		}
	}
	if score < -1 || score > 1 {
		return &models.ValidationError{
			RowIndex: record.RowIndex,
			Field:    "sentiment_score",
			Reason:   models.ReasonOutOfRange,
			Detail:   "score must be between -1 and 1",
		}
	}
	return nil
}

func (v *Validator) checkTimestamp(record models.RawRecord) *models.ValidationError {
	if verr := checkRequiredString(record, "timestamp"); verr != nil {
		return verr
	}
	raw := record.Fields["timestamp"].(string)
	if !looksLikeISO8601(raw) {
		return &models.ValidationError{
			RowIndex: record.RowIndex,
			Field:    "timestamp",
			Reason:   models.ReasonMalformedFormat,
			Detail:   fmt.Sprintf("%q is not an ISO 8601 datetime", raw),
		}
	}
	return nil
}

// checkRequiredString reports missing for absent/empty values and wrong-type
// for present non-string values.
func checkRequiredString(record models.RawRecord, field string) *models.ValidationError {
	value, ok := record.Fields[field]
	if !ok || value == nil {
		return &models.ValidationError{RowIndex: record.RowIndex, Field: field, Reason: models.ReasonMissing}
	}
	s, isString := value.(string)
	if !isString {
		return &models.ValidationError{
			RowIndex: record.RowIndex,
			Field:    field,
			Reason:   models.ReasonWrongType,
			Detail:   fmt.Sprintf("expected string, got %T", value),
		}
	}
	if strings.TrimSpace(s) == "" {
		return &models.ValidationError{RowIndex: record.RowIndex, Field: field, Reason: models.ReasonMissing}
	}
	return nil
}

func numericValue(value any) (float64, error) {
	switch n := value.(type) {
	case json.Number:
		return n.Float64()
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("not a number: %T", value)
	}
}

// Canonicalize builds FeedbackRecords from raw rows after a passing
// validation. A row that would fail validation comes back as an error; a
// partial record never escapes this package.
func (v *Validator) Canonicalize(records []models.RawRecord) ([]models.FeedbackRecord, error) {
	out := make([]models.FeedbackRecord, 0, len(records))
	for _, record := range records {
		feedback, err := v.canonicalizeOne(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", record.RowIndex, err)
		}
		out = append(out, feedback)
	}
	return out, nil
}

func (v *Validator) canonicalizeOne(record models.RawRecord) (models.FeedbackRecord, error) {
	for _, check := range []func(models.RawRecord) *models.ValidationError{
		v.checkFeedbackID, v.checkLanguage, v.checkFeedbackText, v.checkSentimentScore, v.checkTimestamp,
	} {
		if verr := check(record); verr != nil {
			return models.FeedbackRecord{}, fmt.Errorf("%w: field %s (%s)", ErrNotValidated, verr.Field, verr.Reason)
		}
	}

	feedback := models.FeedbackRecord{
		FeedbackID:   record.Fields["feedback_id"].(string),
		Language:     record.Fields["language"].(string),
		FeedbackText: record.Fields["feedback_text"].(string),
		Timestamp:    record.Fields["timestamp"].(string),
	}
	if value, ok := record.Fields["sentiment_score"]; ok && value != nil {
		score, err := numericValue(value)
		if err != nil {
			return models.FeedbackRecord{}, fmt.Errorf("%w: field sentiment_score", ErrNotValidated)
		}
		feedback.SentimentScore = &score
	}
	return feedback, nil
}

// looksLikeISO8601 is the validation-time parse; the normalizer does the
// authoritative conversion. Accepts Z, numeric offsets and fractional seconds.
func looksLikeISO8601(raw string) bool {
	_, err := normalize.ParseISO8601(raw)
	return err == nil
}
