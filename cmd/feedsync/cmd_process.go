package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spacesedan/feedsync/internal/ingest"
	"github.com/spacesedan/feedsync/internal/processing"
	"github.com/spacesedan/feedsync/internal/report"
	"github.com/spacesedan/feedsync/internal/sentiment"
	"github.com/spacesedan/feedsync/internal/translate"
	"github.com/spacesedan/feedsync/internal/validation"
)

var processFlags struct {
	outputPath string
	reportPath string
	htmlReport bool
	workers    int
}

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Run the full pipeline on a feedback batch",
	Long: `Validate, translate, score and normalize a CSV/JSON feedback batch.
On success the structured JSON document is written to --output (stdout by
default) and the detailed processing report to --report.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	f := processCmd.Flags()
	f.StringVarP(&processFlags.outputPath, "output", "o", "", "Path for the structured JSON output (default stdout)")
	f.StringVarP(&processFlags.reportPath, "report", "r", "", "Path for the detailed markdown report")
	f.BoolVar(&processFlags.htmlReport, "html", false, "Render the report as HTML instead of markdown")
	f.IntVar(&processFlags.workers, "workers", 8, "Concurrent records in flight")
}

func runProcess(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	records, err := ingest.Parse(data)
	if err != nil {
		return err
	}

	validator := validation.NewValidator()
	builder := report.NewBuilder(uuid.NewString())

	validationReport := validator.Validate(records)
	if !validationReport.Passed {
		fmt.Fprintln(cmd.ErrOrStderr(), builder.ValidationReport(validationReport))
		return fmt.Errorf("validation failed with %d error(s)", len(validationReport.Errors))
	}

	feedbackRecords, err := validator.Canonicalize(records)
	if err != nil {
		return err
	}

	positive, negative, err := sentiment.LoadLexicons()
	if err != nil {
		return err
	}

	processor := processing.NewProcessor(
		sentiment.NewScorer(positive, negative),
		translate.FromEnv(),
	).WithWorkers(processFlags.workers)

	result := processor.ProcessBatch(cmd.Context(), feedbackRecords)

	output, err := builder.OutputJSON(result)
	if err != nil {
		return err
	}
	if processFlags.outputPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
	} else if err := os.WriteFile(processFlags.outputPath, output, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if processFlags.reportPath != "" {
		markdown, err := builder.ProcessingReport(result)
		if err != nil {
			return err
		}
		content := []byte(markdown)
		if processFlags.htmlReport {
			content = report.RenderHTML(markdown)
		}
		if err := os.WriteFile(processFlags.reportPath, content, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	if len(result.Failures) > 0 {
		return fmt.Errorf("%d record(s) failed processing", len(result.Failures))
	}
	return nil
}
