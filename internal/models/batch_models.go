package models

// FeedbackBatch is the wire envelope published to the feedback-raw topic.
type FeedbackBatch struct {
	BatchID string      `json:"batch_id"`
	Source  string      `json:"source,omitempty"`
	Records []RawRecord `json:"records"`
}

// ProcessedBatch is the wire envelope published to the feedback-processed topic.
type ProcessedBatch struct {
	BatchID   string              `json:"batch_id"`
	Feedbacks []ProcessedFeedback `json:"feedbacks"`
	Failures  []RecordFailure     `json:"failures,omitempty"`
}

// RecordFailure is a per-record processing failure. One failed record never
// aborts the batch; it is reported here instead.
type RecordFailure struct {
	FeedbackID string `json:"feedback_id"`
	Stage      string `json:"stage"` // "translation" or "timestamp"
	Error      string `json:"error"`
}

// BatchResult is what the processor hands back for a validated batch.
// Feedbacks preserves input order; failed records leave a gap there and an
// entry in Failures.
type BatchResult struct {
	Feedbacks []ProcessedFeedback
	Failures  []RecordFailure
}
