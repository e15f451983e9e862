package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spacesedan/feedsync/config"
	"github.com/spacesedan/feedsync/internal/logging"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "feedsync",
	Short: "Validate and normalize multilingual customer feedback",
	Long: "Feedsync ingests CSV/JSON feedback batches, validates them against the\n" +
		"feedback schema, translates non-English text, scores sentiment, and\n" +
		"normalizes timestamps to UTC.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "dev"
		}
		config.LoadEnv(env)
		logging.InitLogger()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
