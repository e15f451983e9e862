// Package ingest turns raw CSV or JSON feedback payloads into an ordered
// sequence of RawRecords, one per row, preserving the original row index.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spacesedan/feedsync/internal/models"
)

// ErrStructuralParse means the input is not valid CSV/JSON at all. This is
// the only fatal ingest error; everything row-level is left for validation.
var ErrStructuralParse = errors.New("structural parse error")

// SchemaFields is the expected schema, in header order.
var SchemaFields = []string{"feedback_id", "language", "feedback_text", "sentiment_score", "timestamp"}

// Parse sniffs the payload format: JSON if it starts with '{', CSV otherwise.
func Parse(data []byte) ([]models.RawRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return ParseJSON(bytes.NewReader(trimmed))
	}
	return ParseCSV(bytes.NewReader(trimmed))
}

// ParseCSV reads a CSV payload with the schema header row. An empty or
// literal "null" sentiment_score becomes an absent field.
func ParseCSV(r io.Reader) ([]models.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading CSV header: %v", ErrStructuralParse, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []models.RawRecord
	row := 0
	for {
		line, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading CSV row %d: %v", ErrStructuralParse, row+1, err)
		}
		row++

		fields := make(map[string]any, len(header))
		for i, name := range header {
			if i >= len(line) {
				continue
			}
			value := line[i]
			if name == "sentiment_score" && (value == "" || strings.EqualFold(value, "null")) {
				continue
			}
			fields[name] = value
		}
		records = append(records, models.RawRecord{RowIndex: row, Fields: fields})
	}

	slog.Debug("[Ingest] Parsed CSV payload", slog.Int("records", len(records)))
	return records, nil
}

type jsonEnvelope struct {
	Feedbacks []map[string]any `json:"feedbacks"`
}

// ParseJSON reads a JSON payload with a top-level "feedbacks" array.
// Values keep their decoded type so the validator can flag wrong-type;
// numbers arrive as json.Number.
func ParseJSON(r io.Reader) ([]models.RawRecord, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var envelope jsonEnvelope
	if err := decoder.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding JSON: %v", ErrStructuralParse, err)
	}
	if envelope.Feedbacks == nil {
		return nil, fmt.Errorf("%w: expected top-level \"feedbacks\" array", ErrStructuralParse)
	}

	records := make([]models.RawRecord, 0, len(envelope.Feedbacks))
	for i, obj := range envelope.Feedbacks {
		fields := make(map[string]any, len(obj))
		for name, value := range obj {
			if name == "sentiment_score" && (value == nil || value == "null") {
				continue
			}
			fields[name] = value
		}
		records = append(records, models.RawRecord{RowIndex: i + 1, Fields: fields})
	}

	slog.Debug("[Ingest] Parsed JSON payload", slog.Int("records", len(records)))
	return records, nil
}
