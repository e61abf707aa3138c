package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var scheduleInterval time.Duration

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the sync now and then periodically",
	Long: `Runs the pipeline immediately and then once every interval until
interrupted. A run that is still in progress when the next tick arrives
causes that tick to be skipped.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().DurationVarP(&scheduleInterval, "interval", "i", 0, "time between runs (0 = configured, default 24h)")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if err := requireRemote(); err != nil {
		return err
	}

	cfg := app.Config.Scheduler
	if scheduleInterval > 0 {
		cfg.Interval = scheduleInterval
	}

	scheduler := app.NewScheduler(cfg)
	cmd.Printf("Scheduling runs every %s (Ctrl+C to stop)\n", cfg.Interval)

	err := scheduler.Start(cmd.Context())
	if errors.Is(err, context.Canceled) {
		cmd.Println("Scheduler stopped.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	return nil
}
