package models

// Reasons attached to a ValidationError.
const (
	ReasonMissing         = "missing"
	ReasonWrongType       = "wrong-type"
	ReasonOutOfRange      = "out-of-range"
	ReasonMalformedFormat = "malformed-format"
)

// ValidationError addresses a single bad field in a single row.
type ValidationError struct {
	RowIndex int    `json:"row_index"`
	Field    string `json:"field_name"`
	Reason   string `json:"reason"`
	Detail   string `json:"detail,omitempty"`
}

// FieldStatus summarizes one schema field across the whole batch.
type FieldStatus struct {
	Field  string `json:"field"`
	Status string `json:"status"` // "valid", "missing" or "invalid"
}

// ValidationReport is the full result of validating a batch. Data errors live
// here as values; validation itself never fails.
type ValidationReport struct {
	TotalRecords  int               `json:"total_records"`
	FieldStatuses []FieldStatus     `json:"field_statuses"`
	Errors        []ValidationError `json:"errors"`
	Passed        bool              `json:"passed"`
}
