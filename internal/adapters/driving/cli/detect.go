package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
)

var detectLimit int

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "List new and updated articles without syncing",
	Long: `Fetches the help center and compares it against the saved snapshot.
Nothing is uploaded, archived or saved.`,
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().IntVarP(&detectLimit, "limit", "n", 0, "maximum number of articles to consider (0 = no limit; default from config)")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, _ []string) error {
	report, err := app.Pipeline.Run(cmd.Context(), driving.RunOptions{Limit: limitOption(cmd, detectLimit), DryRun: true})
	if err != nil {
		return fmt.Errorf("detect failed: %w", err)
	}

	printChanges(cmd.OutOrStdout(), report)
	return nil
}

// printChanges writes the change set, one article per line.
func printChanges(w io.Writer, report *domain.RunReport) {
	changes := report.Changes
	fmt.Fprintf(w, "Fetched %d articles\n", report.Fetched)

	fmt.Fprintf(w, "\nNew (%d):\n", len(changes.New))
	for _, c := range changes.New {
		fmt.Fprintf(w, "  + %s  %s (%s)\n", c.Article.ID, c.Article.Title, c.Normalised.Filename())
	}

	fmt.Fprintf(w, "\nUpdated (%d):\n", len(changes.Updated))
	for _, c := range changes.Updated {
		fmt.Fprintf(w, "  ~ %s  %s (%s)\n", c.Article.ID, c.Article.Title, c.Normalised.Filename())
	}

	fmt.Fprintf(w, "\nUnchanged: %d\n", len(changes.Unchanged))
}
