// Package report renders validation and processing results into markdown
// and the structured JSON output document.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/feedsync/internal/models"
)

// Builder renders reports for a single batch.
type Builder struct {
	batchID string
}

func NewBuilder(batchID string) *Builder {
	return &Builder{batchID: batchID}
}

// ValidationReport renders the per-field status summary and the accumulated
// row-addressable errors.
func (b *Builder) ValidationReport(report *models.ValidationReport) string {
	var sb strings.Builder

	sb.WriteString("# Customer Feedback Data Validation Report\n")
	if b.batchID != "" {
		fmt.Fprintf(&sb, "- Batch ID: %s\n", b.batchID)
	}
	fmt.Fprintf(&sb, "- Total Feedback Records: %d\n\n", report.TotalRecords)

	sb.WriteString("## Required Fields Check:\n")
	for _, fs := range report.FieldStatuses {
		fmt.Fprintf(&sb, "  %s: %s\n", fs.Field, fs.Status)
	}
	sb.WriteString("\n## Validation Status:\n")

	if report.Passed {
		sb.WriteString("Data validation is successful!\n")
		return sb.String()
	}

	for _, verr := range report.Errors {
		fmt.Fprintf(&sb, "- ERROR: row %d, field %s: %s", verr.RowIndex, verr.Field, verr.Reason)
		if verr.Detail != "" {
			fmt.Fprintf(&sb, " (%s)", verr.Detail)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ProcessingReport renders the detailed per-feedback analysis: input data,
// translation check, the sentiment calculation with its counts, the
// synchronized timestamp, per-record failures, and the structured JSON
// output embedded at the end.
func (b *Builder) ProcessingReport(result models.BatchResult) (string, error) {
	var sb strings.Builder

	sb.WriteString("# Customer Feedback JSON Summary\n\n")
	if b.batchID != "" {
		fmt.Fprintf(&sb, "**Batch ID:** %s\n\n", b.batchID)
	}
	fmt.Fprintf(&sb, "**Total Feedback Records Evaluated:** %d\n\n---\n\n",
		len(result.Feedbacks)+len(result.Failures))

	for _, feedback := range result.Feedbacks {
		b.writeFeedbackSection(&sb, feedback)
	}

	if len(result.Failures) > 0 {
		sb.WriteString("## Failed Records\n\n")
		for _, failure := range result.Failures {
			fmt.Fprintf(&sb, "- **%s** failed during %s: %s\n",
				failure.FeedbackID, failure.Stage, failure.Error)
		}
		sb.WriteString("\n---\n\n")
	}

	doc, err := b.OutputJSON(result)
	if err != nil {
		return "", err
	}
	sb.WriteString("## Structured JSON OUTPUT\n\n```json\n")
	sb.Write(doc)
	sb.WriteString("\n```\n")

	return sb.String(), nil
}

func (b *Builder) writeFeedbackSection(sb *strings.Builder, feedback models.ProcessedFeedback) {
	fmt.Fprintf(sb, "### Feedback: %s\n\n", feedback.FeedbackID)

	sb.WriteString("#### Input Data:\n")
	fmt.Fprintf(sb, "- **Language:** %s\n", feedback.Language)
	fmt.Fprintf(sb, "- **Feedback Text:** %s\n", feedback.FeedbackText)
	if feedback.ScoreWasProvided {
		fmt.Fprintf(sb, "- **Sentiment Score (if provided):** %.2f\n", feedback.SentimentScore)
	} else {
		sb.WriteString("- **Sentiment Score (if provided):** Not provided\n")
	}
	sb.WriteString("\n#### Processing Steps:\n")

	if feedback.Language != "en" {
		fmt.Fprintf(sb, "1. **Translation:** translated from %q: %s\n",
			feedback.Language, feedback.TranslatedText)
	} else {
		sb.WriteString("1. **Translation:** not needed, original text used\n")
	}

	fmt.Fprintf(sb, "2. **Sentiment Calculation:** P=%d, N=%d, total_words=%d",
		feedback.PositiveWords, feedback.NegativeWords, feedback.TotalWords)
	if feedback.ScoreWasProvided {
		fmt.Fprintf(sb, "; provided score %.2f kept\n", feedback.SentimentScore)
	} else {
		fmt.Fprintf(sb, "; (P-N)/total_words = %.2f\n", feedback.SentimentScore)
	}
	if feedback.SentimentCrossLabel != "" {
		fmt.Fprintf(sb, "   - VADER cross-check label: %s\n", feedback.SentimentCrossLabel)
	}

	fmt.Fprintf(sb, "3. **Synchronized Timestamp:** %s\n\n---\n\n", feedback.NormalizedTimestamp)
}

// OutputJSON serializes the output document: every score populated, every
// timestamp canonical UTC, input order preserved.
func (b *Builder) OutputJSON(result models.BatchResult) ([]byte, error) {
	doc := models.OutputDocument{
		Feedbacks: make([]models.OutputFeedback, 0, len(result.Feedbacks)),
	}
	for _, feedback := range result.Feedbacks {
		doc.Feedbacks = append(doc.Feedbacks, feedback.ToOutput())
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling output document: %w", err)
	}
	return data, nil
}

// RenderHTML converts a markdown report to HTML for dashboards and email.
func RenderHTML(markdown string) []byte {
	return blackfriday.Run([]byte(markdown))
}
