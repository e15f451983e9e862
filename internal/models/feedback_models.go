package models

// RawRecord is one input row before validation. Values keep the shape the
// parser produced (string for CSV, string/json.Number/bool/nil for JSON) so
// the validator can report wrong-type instead of coercing silently.
type RawRecord struct {
	RowIndex int            `json:"row_index"` // 1-based, used in error messages
	Fields   map[string]any `json:"fields"`
}

// FeedbackRecord is the canonical form of a row that passed validation.
type FeedbackRecord struct {
	FeedbackID     string   `json:"feedback_id"`
	Language       string   `json:"language"`
	FeedbackText   string   `json:"feedback_text"`
	SentimentScore *float64 `json:"sentiment_score"` // nil means "compute it"
	Timestamp      string   `json:"timestamp"`
}

// ProcessedFeedback is the terminal artifact for a single record.
type ProcessedFeedback struct {
	FeedbackID          string  `json:"feedback_id"`
	Language            string  `json:"language"`
	FeedbackText        string  `json:"feedback_text"`
	TranslatedText      string  `json:"translated_text"`
	SentimentScore      float64 `json:"sentiment_score"`
	ScoreWasProvided    bool    `json:"score_was_provided"`
	NormalizedTimestamp string  `json:"timestamp"`
	SentimentCrossLabel string  `json:"sentiment_cross_label,omitempty"`
	PositiveWords       int     `json:"positive_words"`
	NegativeWords       int     `json:"negative_words"`
	TotalWords          int     `json:"total_words"`
}

// OutputDocument is the structured JSON emitted for a successful batch.
type OutputDocument struct {
	Feedbacks []OutputFeedback `json:"feedbacks"`
}

// OutputFeedback mirrors the input schema with every score populated and
// every timestamp canonical UTC.
type OutputFeedback struct {
	FeedbackID     string  `json:"feedback_id"`
	Language       string  `json:"language"`
	FeedbackText   string  `json:"feedback_text"`
	SentimentScore float64 `json:"sentiment_score"`
	Timestamp      string  `json:"timestamp"`
}

func (p ProcessedFeedback) ToOutput() OutputFeedback {
	return OutputFeedback{
		FeedbackID:     p.FeedbackID,
		Language:       p.Language,
		FeedbackText:   p.TranslatedText,
		SentimentScore: p.SentimentScore,
		Timestamp:      p.NormalizedTimestamp,
	}
}
