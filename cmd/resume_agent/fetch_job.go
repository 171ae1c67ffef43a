package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var fetchJobCmd = &cobra.Command{
	Use:   "fetch-job",
	Short: "Fetch a job posting and print its description text",
	Long:  "Download a job posting, strip navigation and boilerplate, and print the description text. Use --browser for boards that render with JavaScript.",
	RunE:  runFetchJob,
}

var (
	fetchURL     string
	fetchOutput  string
	fetchBrowser bool
)

func init() {
	fetchJobCmd.Flags().StringVarP(&fetchURL, "url", "u", "", "Job posting URL (required)")
	fetchJobCmd.Flags().StringVarP(&fetchOutput, "out", "o", "", "Write the text to a file instead of stdout")
	fetchJobCmd.Flags().BoolVar(&fetchBrowser, "browser", false, "Fall back to headless Chrome when the page has too little text")
	_ = fetchJobCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(fetchJobCmd)
}

func runFetchJob(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	text, err := newFetcher(appConfig, fetchBrowser, appLogger).JobDescription(ctx, fetchURL)
	if err != nil {
		return err
	}

	if fetchOutput != "" {
		if err := os.WriteFile(fetchOutput, []byte(text+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", fetchOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d characters to %s\n", len(text), fetchOutput)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
