package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
)

var statusHistory int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved sync state and recent runs",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusHistory, "history", 10, "number of recent runs to show")
	rootCmd.AddCommand(statusCmd)
}

// Status output styles.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	labelStyle  = lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("#6C7086"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	headerStyle = lipgloss.NewStyle().Bold(true)
)

func runStatus(cmd *cobra.Command, _ []string) error {
	status, err := app.Status.Status(cmd.Context(), statusHistory)
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	printStatus(cmd.OutOrStdout(), status)
	return nil
}

// printStatus renders the run state followed by the history table.
func printStatus(w io.Writer, status *driving.Status) {
	state := status.State

	fmt.Fprintln(w, titleStyle.Render("Sync state"))
	if state.IsZero() {
		fmt.Fprintln(w, mutedStyle.Render("No sync has run yet."))
	} else {
		row(w, "Assistant", orNone(state.AgentID))
		row(w, "Vector store", orNone(state.IndexID))
		row(w, "Last sync", formatTime(state.LastSync))
		row(w, "Files uploaded", fmt.Sprintf("%d", state.FilesUploaded))
		row(w, "Index attach", mark(state.IndexAttachSuccess))
		row(w, "Assistant bind", mark(state.AgentAttachSuccess))
		if ids := state.PendingFileIDs(); len(ids) > 0 {
			row(w, "Pending files", fmt.Sprintf("%d (%s)", len(ids), strings.Join(ids, ", ")))
		}
	}
	row(w, "Tracked articles", fmt.Sprintf("%d", status.SnapshotSize))

	if len(status.History) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Recent runs"))
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-20s  %5s  %7s  %7s  %8s  %s",
		"STARTED", "NEW", "UPDATED", "SKIPPED", "UPLOADED", "RESULT")))
	for _, r := range status.History {
		result := okStyle.Render("ok")
		if !r.Success {
			result = failStyle.Render("partial")
			if r.Error != "" {
				result += " " + mutedStyle.Render(r.Error)
			}
		}
		if r.DryRun {
			result = mutedStyle.Render("dry run")
		}
		fmt.Fprintf(w, "%-20s  %5d  %7d  %7d  %8d  %s\n",
			formatTime(r.StartedAt), r.Added, r.Updated, r.Skipped, r.FilesUploaded, result)
	}
}

func row(w io.Writer, label, value string) {
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value))
}

func mark(ok bool) string {
	if ok {
		return okStyle.Render("yes")
	}
	return failStyle.Render("no")
}

func orNone(s string) string {
	if s == "" {
		return mutedStyle.Render("(none)")
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
