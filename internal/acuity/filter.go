package acuity

import (
	"context"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/intakesync/intakesync/pkg/constants"
	"github.com/intakesync/intakesync/pkg/intake"
	"github.com/intakesync/intakesync/pkg/logging"
)

// RecentWithForms fetches appointments created inside the lookback
// window that carry at least one intake form. Canceled appointments are
// kept only when includeCanceled is true. A non-positive lookback falls
// back to constants.DefaultLookbackHours.
func (c *Client) RecentWithForms(ctx context.Context, lookback time.Duration, includeCanceled bool) ([]intake.Appointment, error) {
	if lookback <= 0 {
		lookback = constants.DefaultLookbackHours * time.Hour
	}
	cutoff := utc.Now().Add(-lookback)

	appointments, err := c.Appointments(ctx, ListOptions{
		MinDate: cutoff.Format(constants.TimeFormatDate),
		Max:     constants.DefaultMaxAppointments,
	})
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	recent := make([]intake.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		if includeAppointment(logger, appointment, cutoff.Time, includeCanceled) {
			recent = append(recent, appointment)
		}
	}

	logger.Info().
		Int("fetched", len(appointments)).
		Int("matched", len(recent)).
		Bool("include_canceled", includeCanceled).
		Msg("Filtered recent appointments with forms")
	return recent, nil
}

// includeAppointment reports whether an appointment belongs in a
// recent-window listing. Appointments without forms are dropped, and
// canceled ones only kept on request. The creation time is compared
// against the cutoff; canceled appointments missing one fall back to
// the appointment time, and an appointment with no timestamp at all is
// kept rather than silently lost.
func includeAppointment(logger *zerolog.Logger, appointment intake.Appointment, cutoff time.Time, includeCanceled bool) bool {
	if len(appointment.Forms) == 0 {
		return false
	}
	if appointment.Canceled && !includeCanceled {
		return false
	}

	created := appointment.DateCreated
	if created == "" && appointment.Canceled && includeCanceled {
		created = appointment.Datetime
	}
	if created == "" {
		return true
	}

	createdAt, err := intake.ParseTimestamp(created)
	if err != nil {
		logger.Warn().
			Str("appointment_id", appointment.ID).
			Str("created", created).
			Msg("Skipping appointment with unparseable creation time")
		return false
	}
	return !createdAt.Before(cutoff)
}
