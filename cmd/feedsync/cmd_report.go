package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spacesedan/feedsync/internal/db"
	"github.com/spacesedan/feedsync/internal/models"
	"github.com/spacesedan/feedsync/internal/report"
)

var reportFlags struct {
	reportPath string
	htmlReport bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Regenerate the detailed report from stored feedback",
	Long: `Scan the processed-feedback table and rebuild the detailed markdown
report from what the pipeline has persisted.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVarP(&reportFlags.reportPath, "report", "r", "", "Path for the regenerated report (default stdout)")
	f.BoolVar(&reportFlags.htmlReport, "html", false, "Render the report as HTML instead of markdown")
}

func runReport(cmd *cobra.Command, args []string) error {
	db.InitDynamoDB()

	feedbacks, err := db.GetAllProcessedFeedback(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading stored feedback: %w", err)
	}

	builder := report.NewBuilder("")
	markdown, err := builder.ProcessingReport(models.BatchResult{Feedbacks: feedbacks})
	if err != nil {
		return err
	}

	content := []byte(markdown)
	if reportFlags.htmlReport {
		content = report.RenderHTML(markdown)
	}

	if reportFlags.reportPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(content))
		return nil
	}
	if err := os.WriteFile(reportFlags.reportPath, content, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
