package app

import (
	"context"
	"strconv"
	"time"

	"github.com/agentstation/utc"
	"github.com/spf13/cobra"

	"github.com/intakesync/intakesync/internal/acuity"
	"github.com/intakesync/intakesync/internal/cmdutil"
	"github.com/intakesync/intakesync/pkg/constants"
	"github.com/intakesync/intakesync/pkg/intake"
)

// NewFetchCommand creates the fetch command.
func (a *App) NewFetchCommand() *cobra.Command {
	var (
		hours int
		limit int
		one   int64
	)

	cmd := &cobra.Command{
		Use:     "fetch",
		GroupID: "core",
		Short:   "Fetch appointments from Acuity without writing anywhere",
		Long: `Fetch lists appointments straight from the Acuity API.

Nothing is injected or exported. Use it to inspect what a sync run
would see, or --one to pull a single appointment with its full intake
forms.`,
		Example: `  intakesync fetch
  intakesync fetch --hours 48 --limit 10
  intakesync fetch --one 987654321 -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.config.ValidateAcuity(); err != nil {
				return err
			}

			client := a.AcuityClient()
			ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
			defer cancel()
			format := cmdutil.DetectFormat(a.config.Format)
			formatter := cmdutil.NewFormatter(format)

			if one > 0 {
				appointment, err := client.AppointmentByID(ctx, one)
				if err != nil {
					return err
				}
				if format == cmdutil.FormatTable {
					return formatter.Format(cmd.OutOrStdout(), appointmentTable([]intake.Appointment{*appointment}))
				}
				return formatter.Format(cmd.OutOrStdout(), appointment)
			}

			cutoff := utc.Now().Add(-time.Duration(hours) * time.Hour)
			appointments, err := client.Appointments(ctx, acuity.ListOptions{
				MinDate: cutoff.Format(constants.TimeFormatDate),
				Max:     limit,
			})
			if err != nil {
				return err
			}

			if format == cmdutil.FormatTable {
				return formatter.Format(cmd.OutOrStdout(), appointmentTable(appointments))
			}
			return formatter.Format(cmd.OutOrStdout(), appointments)
		},
	}

	cmd.Flags().IntVar(&hours, "hours", a.config.LookbackHours, "how many hours back to list appointments")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum appointments to list (0 for the API default)")
	cmd.Flags().Int64Var(&one, "one", 0, "fetch a single appointment by ID")

	return cmd
}

// appointmentTable flattens appointments into tabular rows.
func appointmentTable(appointments []intake.Appointment) cmdutil.Data {
	rows := make([][]string, 0, len(appointments))
	for i := range appointments {
		appointment := &appointments[i]
		rows = append(rows, []string{
			appointment.ID,
			appointment.ClientName,
			appointment.Email,
			appointment.EasternTime(),
			appointment.TypeName,
			appointment.Status(),
			strconv.Itoa(len(appointment.Forms)),
		})
	}
	return cmdutil.Data{
		Headers: []string{"ID", "Client", "Email", "Time", "Type", "Status", "Forms"},
		Rows:    rows,
	}
}
