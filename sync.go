package intakesync

import (
	"context"
	"time"

	"github.com/agentstation/utc"

	"github.com/intakesync/intakesync/pkg/constants"
	"github.com/intakesync/intakesync/pkg/errors"
	"github.com/intakesync/intakesync/pkg/intake"
	"github.com/intakesync/intakesync/pkg/logging"
)

// SyncOptions control a single sync run.
type SyncOptions struct {
	// Lookback is how far back to fetch appointments.
	Lookback time.Duration

	// IncludeCanceled keeps canceled appointments in the run.
	IncludeCanceled bool

	// DryRun fetches and classifies but writes nothing: no datastore
	// records, no activity rows, no exports, no run log.
	DryRun bool
}

// SyncOption overrides one sync run setting.
type SyncOption func(*SyncOptions)

// SyncWithLookback sets the fetch window for this run.
func SyncWithLookback(lookback time.Duration) SyncOption {
	return func(o *SyncOptions) {
		o.Lookback = lookback
	}
}

// SyncWithIncludeCanceled sets whether this run keeps canceled
// appointments.
func SyncWithIncludeCanceled(enabled bool) SyncOption {
	return func(o *SyncOptions) {
		o.IncludeCanceled = enabled
	}
}

// SyncWithDryRun makes this run read-only.
func SyncWithDryRun(enabled bool) SyncOption {
	return func(o *SyncOptions) {
		o.DryRun = enabled
	}
}

// syncOptions builds a run's options from the syncer defaults.
func (s *syncer) syncOptions(opts ...SyncOption) *SyncOptions {
	options := &SyncOptions{
		Lookback:        s.config.lookback,
		IncludeCanceled: s.config.includeCanceled,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}
	return options
}

// Sync performs one run: discover the sink's columns, fetch recent
// appointments with forms, inject each into the sink, record it in the
// activity log, export its form answers to the category ledger, and
// save the run state. Per-appointment failures are logged and recorded
// in the Result; the batch continues.
func (s *syncer) Sync(ctx context.Context, opts ...SyncOption) (*Result, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Parse options
	options := s.syncOptions(opts...)

	logger := logging.FromContext(ctx)
	logger.Info().
		Dur("lookback", options.Lookback).
		Bool("include_canceled", options.IncludeCanceled).
		Bool("dry_run", options.DryRun).
		Msg("Starting sync")

	result := newResult(options.DryRun)

	// Step 2: Discover the sink's columns
	if err := s.sink.Discover(ctx); err != nil {
		return nil, errors.NewSyncError("discover", "", err)
	}

	// Step 3: Fetch recent appointments carrying intake forms
	fetchCtx, cancelFetch := context.WithTimeout(ctx, constants.FetchTimeout)
	appointments, err := s.source.RecentWithForms(fetchCtx, options.Lookback, options.IncludeCanceled)
	cancelFetch()
	if err != nil {
		return nil, errors.NewSyncError("fetch", "", err)
	}
	result.Fetched = len(appointments)

	// Step 4: Process every appointment, canceled ones included. A
	// canceled context stops the batch between records, never inside
	// one, so files stay valid and no failures are fabricated.
	for i, appointment := range appointments {
		if err := ctx.Err(); err != nil {
			logger.Warn().
				Err(err).
				Int("remaining", len(appointments)-i).
				Msg("Sync canceled, skipping remaining appointments")
			break
		}
		s.process(logging.WithAppointment(ctx, appointment.ID), appointment, options, result)
	}

	// Step 5: Save the run state
	if !options.DryRun {
		if err := s.runLog.Save(utc.Now(), result.Processed()); err != nil {
			logger.Warn().Err(err).Msg("Could not save run log")
		}
	}

	result.Finished = utc.Now()
	logger.Info().
		Int("fetched", result.Fetched).
		Int("injected", len(result.Injected)).
		Int("failed", len(result.Failed)).
		Dur("duration", result.Duration()).
		Msg("Sync complete")

	s.triggerCompleted(result)
	return result, nil
}

// process handles one appointment: inject, log the action, export the
// form answers. Failures are recorded in the result and do not stop
// the batch.
func (s *syncer) process(ctx context.Context, appointment intake.Appointment, options *SyncOptions, result *Result) {
	logger := logging.FromContext(ctx)
	name := s.classifier.Categorize(appointment.TypeName)
	now := utc.Now()

	logger.Info().
		Str("client", appointment.ClientName).
		Str("category", name).
		Str("status", appointment.Status()).
		Msg("Processing appointment")

	if options.DryRun {
		result.Skipped = append(result.Skipped, appointment.ID)
		logger.Info().Msg("Dry run, skipping injection")
		return
	}

	recordID, err := s.sink.Inject(ctx, appointment)
	if err != nil {
		result.Failed = append(result.Failed, appointment.ID)
		result.Errors = append(result.Errors, errors.NewSyncError("inject", appointment.ID, err))
		logger.Error().Err(err).Msg("Failed to inject record")
		s.logActivity(ctx, appointment, now, false, "", "Injection failed: "+err.Error())
		s.triggerFailed(appointment, err)
		return
	}

	result.Injected = append(result.Injected, appointment.ID)
	logger.Info().Str("record_id", recordID).Msg("Injected into datastore")
	s.logActivity(ctx, appointment, now, true, recordID, "Injected successfully")
	s.triggerInjected(appointment, recordID)

	// Form answers are exported only for records that actually landed.
	outcome, err := s.ledger.Append(ctx, name, appointment.Record(now))
	if err != nil {
		result.Errors = append(result.Errors, errors.NewSyncError("export", appointment.ID, err))
		logger.Warn().Err(err).Msg("Could not export form data")
		return
	}
	result.Outcomes[outcome]++
}

// logActivity appends one audit row. A write failure is a warning, not
// a batch stopper.
func (s *syncer) logActivity(ctx context.Context, appointment intake.Appointment, now utc.Time, injected bool, recordID, notes string) {
	if err := s.activity.Append(appointment.ActivityRecord(now, injected, recordID, notes)); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Could not write activity log")
	}
}
