package app

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/intakesync/intakesync"
)

// NewSyncCommand creates the sync command.
func (a *App) NewSyncCommand() *cobra.Command {
	var (
		hours           int
		includeCanceled bool
		dryRun          bool
		exportsDir      string
		activityLog     string
		every           time.Duration
	)

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Fetch recent appointments and inject them into Airtable",
		Long: `Sync runs one fetch/inject/export cycle.

Appointments booked or changed inside the lookback window that carry
intake forms are injected into the Airtable table, written to the
activity log, and exported to per-category CSV files. Canceled
appointments are included by default so the table reflects reality.

With --every the command keeps running and repeats the sync on the
given interval until interrupted.`,
		Example: `  intakesync sync
  intakesync sync --hours 48 --dry-run
  intakesync sync --every 1h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Path flags override the configured locations and must be
			// applied before the syncer is built.
			if cmd.Flags().Changed("exports-dir") {
				a.config.ExportsDir = exportsDir
			}
			if cmd.Flags().Changed("activity-log") {
				a.config.ActivityLog = activityLog
			}
			if cmd.Flags().Changed("every") {
				a.config.AutoSyncInterval = every
			}

			syncer, err := a.Syncer()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			result, err := syncer.Sync(ctx,
				intakesync.SyncWithLookback(time.Duration(hours)*time.Hour),
				intakesync.SyncWithIncludeCanceled(includeCanceled),
				intakesync.SyncWithDryRun(dryRun),
			)
			if err != nil {
				return err
			}

			cmd.Println(result.Summary())
			for _, syncErr := range result.Errors {
				a.logger.Warn().Err(syncErr).Msg("Sync recorded an error")
			}

			if every > 0 && !dryRun {
				if err := syncer.AutoSyncOn(); err != nil {
					return err
				}
				a.logger.Info().Dur("interval", every).Msg("Watching for new appointments")
				<-ctx.Done()
				return syncer.AutoSyncOff()
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&hours, "hours", a.config.LookbackHours, "how many hours back to fetch appointments")
	cmd.Flags().BoolVar(&includeCanceled, "include-canceled", a.config.IncludeCanceled, "include canceled appointments")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "fetch and classify but write nothing")
	cmd.Flags().StringVar(&exportsDir, "exports-dir", a.config.ExportsDir, "directory for per-category CSV files")
	cmd.Flags().StringVar(&activityLog, "activity-log", a.config.ActivityLog, "path of the activity log CSV")
	cmd.Flags().DurationVar(&every, "every", 0, "keep running and sync on this interval")

	return cmd
}
