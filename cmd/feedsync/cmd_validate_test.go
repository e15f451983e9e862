package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validCSV = `feedback_id,language,feedback_text,sentiment_score,timestamp
FB601,en,The new interface is good and intuitive,,2023-03-21T08:00:00Z
`

const invalidCSV = `feedback_id,language,feedback_text,sentiment_score,timestamp
FB601,en,The new interface is good and intuitive,,
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunValidate_Passes(t *testing.T) {
	path := writeTempFile(t, "feedback.csv", validCSV)

	var out bytes.Buffer
	validateCmd.SetOut(&out)

	if err := runValidate(validateCmd, []string{path}); err != nil {
		t.Fatalf("runValidate returned unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Data validation is successful!") {
		t.Errorf("report missing success line:\n%s", out.String())
	}
}

func TestRunValidate_FailsWithError(t *testing.T) {
	path := writeTempFile(t, "feedback.csv", invalidCSV)

	var out bytes.Buffer
	validateCmd.SetOut(&out)

	err := runValidate(validateCmd, []string{path})
	if err == nil {
		t.Fatal("runValidate should return an error for a failing batch")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("error = %q, want a validation failure", err)
	}
	// The report is still printed before the error is returned.
	if !strings.Contains(out.String(), "timestamp: missing") {
		t.Errorf("report missing field status:\n%s", out.String())
	}
}
