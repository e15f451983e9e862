package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spacesedan/feedsync/internal/ingest"
	"github.com/spacesedan/feedsync/internal/report"
	"github.com/spacesedan/feedsync/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a CSV/JSON feedback batch and print the report",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	records, err := ingest.Parse(data)
	if err != nil {
		return err
	}

	validationReport := validation.NewValidator().Validate(records)
	builder := report.NewBuilder(uuid.NewString())
	fmt.Fprintln(cmd.OutOrStdout(), builder.ValidationReport(validationReport))

	if !validationReport.Passed {
		return fmt.Errorf("validation failed with %d error(s)", len(validationReport.Errors))
	}
	return nil
}
