// Package intakesync glues the Acuity scheduling API to an Airtable
// table, with an append-only CSV paper trail of everything it touches.
//
// Each sync run fetches recent appointments that carry intake forms,
// injects every one of them into the spreadsheet (canceled bookings
// included, so the table reflects reality), records the action in a
// fixed-header activity log, and exports the form answers to a
// per-category CSV ledger that deduplicates by content signature and
// infers reschedules from its own rows.
//
// Example usage:
//
//	source := acuity.New(userID, apiKey)
//	sink := airtable.NewService(airtable.New(key, baseID, table))
//
//	syncer, err := intakesync.New(
//	    intakesync.WithSource(source),
//	    intakesync.WithSink(sink),
//	    intakesync.WithExportsDir("exports"),
//	    intakesync.WithKeywords("help desk", "workshop"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := syncer.Sync(ctx, intakesync.SyncWithLookback(48*time.Hour))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
package intakesync

import (
	"context"
	"time"

	"github.com/intakesync/intakesync/pkg/category"
	"github.com/intakesync/intakesync/pkg/errors"
	"github.com/intakesync/intakesync/pkg/intake"
	"github.com/intakesync/intakesync/pkg/ledger"
)

// Compile-time interface check to ensure proper implementation.
var _ Syncer = (*syncer)(nil)

// Source fetches recent appointments carrying intake forms.
type Source interface {
	RecentWithForms(ctx context.Context, lookback time.Duration, includeCanceled bool) ([]intake.Appointment, error)
}

// Sink accepts appointments into the spreadsheet datastore.
type Sink interface {
	// Discover loads the datastore's column set, rebuilding the field
	// mapping used by Inject.
	Discover(ctx context.Context) error

	// Inject creates one datastore record for the appointment and
	// returns its identifier.
	Inject(ctx context.Context, appointment intake.Appointment) (string, error)
}

// Syncer runs fetch/inject/export cycles between a Source and a Sink.
type Syncer interface {
	// Sync performs one run: fetch, inject, log, export.
	Sync(ctx context.Context, opts ...SyncOption) (*Result, error)

	// AutoSyncer controls periodic background syncs.
	AutoSyncer

	// Ledger exposes the per-category export files.
	Ledger() *ledger.Ledger

	// ActivityLog exposes the append-only audit trail.
	ActivityLog() *ledger.ActivityLog

	// RunLog exposes the last-run state file.
	RunLog() *RunLog

	// OnAppointmentInjected registers a callback for successful injections.
	OnAppointmentInjected(AppointmentInjectedHook)

	// OnAppointmentFailed registers a callback for failed injections.
	OnAppointmentFailed(AppointmentFailedHook)

	// OnSyncCompleted registers a callback for finished sync runs.
	OnSyncCompleted(SyncCompletedHook)
}

// syncer is the internal implementation of the Syncer interface.
type syncer struct {
	config     *config
	source     Source
	sink       Sink
	classifier *category.Classifier
	ledger     *ledger.Ledger
	activity   *ledger.ActivityLog
	runLog     *RunLog

	// Event hooks
	*hooks

	// Background sync state
	syncTicker *time.Ticker
	syncCancel context.CancelFunc
	stopCh     chan struct{}
}

// New creates a Syncer from the given options. A Source and a Sink are
// required; everything else has defaults.
func New(opts ...Option) (Syncer, error) {
	cfg, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}
	if cfg.source == nil {
		return nil, errors.NewConfigError("syncer", "a source is required", nil)
	}
	if cfg.sink == nil {
		return nil, errors.NewConfigError("syncer", "a sink is required", nil)
	}

	classifier := cfg.classifier
	if classifier == nil {
		var copts []category.Option
		if len(cfg.keywords) > 0 {
			copts = append(copts, category.WithKeywords(cfg.keywords...))
		}
		if cfg.fallback != "" {
			copts = append(copts, category.WithFallback(cfg.fallback))
		}
		classifier, err = category.New(copts...)
		if err != nil {
			return nil, errors.NewConfigError("classifier", "invalid categorization options", err)
		}
	}

	exports, err := ledger.New(cfg.exportsDir)
	if err != nil {
		return nil, err
	}

	activity := ledger.NewActivityLog(cfg.activityLogPath)
	if err := activity.Init(); err != nil {
		return nil, err
	}

	s := &syncer{
		config:     cfg,
		source:     cfg.source,
		sink:       cfg.sink,
		classifier: classifier,
		ledger:     exports,
		activity:   activity,
		runLog:     NewRunLog(cfg.runLogPath),
		hooks:      newHooks(),
		stopCh:     make(chan struct{}),
	}
	return s, nil
}

// Ledger exposes the per-category export files.
func (s *syncer) Ledger() *ledger.Ledger {
	return s.ledger
}

// ActivityLog exposes the append-only audit trail.
func (s *syncer) ActivityLog() *ledger.ActivityLog {
	return s.activity
}

// RunLog exposes the last-run state file.
func (s *syncer) RunLog() *RunLog {
	return s.runLog
}
