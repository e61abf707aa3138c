package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
)

var (
	runLimit  int
	runDryRun bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, detect and sync changed articles once",
	Long: `Fetches every article from the help center, compares it against the
last snapshot and uploads only new and updated articles to the vector store.

A run where some stages fail still exits 0; the failing stage is reported
and the next run resumes from the persisted state.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVarP(&runLimit, "limit", "n", 0, "maximum number of articles to consider (0 = no limit; default from config)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "detect and report without uploading or saving")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	if !runDryRun {
		if err := requireRemote(); err != nil {
			return err
		}
	}

	opts := driving.RunOptions{Limit: limitOption(cmd, runLimit), DryRun: runDryRun}
	report, err := app.Pipeline.Run(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	printReport(cmd.OutOrStdout(), report)
	return nil
}

// limitOption maps the --limit flag onto RunOptions.Limit: unset defers to
// the configured limit and an explicit 0 disables the cap.
func limitOption(cmd *cobra.Command, limit int) int {
	if !cmd.Flags().Changed("limit") {
		return 0
	}
	if limit <= 0 {
		return -1
	}
	return limit
}

// printReport writes the one-run summary.
func printReport(w io.Writer, report *domain.RunReport) {
	if report.DryRun {
		fmt.Fprintln(w, "Dry run: nothing was uploaded or saved.")
	}
	fmt.Fprintf(w, "Fetched %d articles: %d new, %d updated, %d unchanged\n",
		report.Fetched, report.Added, report.Updated, report.Skipped)

	if report.DryRun {
		return
	}

	fmt.Fprintf(w, "Uploaded %d files (%d failed)\n", report.FilesUploaded, report.UploadErrors)
	if report.AgentID != "" {
		fmt.Fprintf(w, "Assistant: %s\n", report.AgentID)
	}
	if report.IndexID != "" {
		fmt.Fprintf(w, "Vector store: %s\n", report.IndexID)
	}

	switch {
	case report.Success:
		fmt.Fprintf(w, "Run %s completed in %s\n", report.RunID, report.Duration().Round(time.Millisecond))
	default:
		fmt.Fprintf(w, "Warning: run %s partially succeeded: %s\n", report.RunID, report.Error)
		fmt.Fprintln(w, "The next run will resume from the saved state.")
	}
}
