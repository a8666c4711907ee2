package intakesync

import (
	"fmt"
	"time"

	"github.com/agentstation/utc"

	"github.com/intakesync/intakesync/pkg/ledger"
)

// Result represents the complete result of one sync run.
type Result struct {
	// Started and Finished bound the run's wall time.
	Started  utc.Time
	Finished utc.Time

	// DryRun reports whether the run skipped all writes.
	DryRun bool

	// Fetched is how many appointments the source returned.
	Fetched int

	// Injected holds the appointment IDs created in the datastore.
	Injected []string

	// Failed holds the appointment IDs whose injection failed.
	Failed []string

	// Skipped holds the appointment IDs a dry run left untouched.
	Skipped []string

	// Outcomes counts what the export ledger did with each appended
	// record.
	Outcomes map[ledger.Outcome]int

	// Errors holds the per-appointment errors the batch survived.
	Errors []error
}

// newResult creates an empty result stamped with the start time.
func newResult(dryRun bool) *Result {
	return &Result{
		Started:  utc.Now(),
		DryRun:   dryRun,
		Outcomes: make(map[ledger.Outcome]int),
	}
}

// Processed returns how many appointments the run handled.
func (r *Result) Processed() int {
	return len(r.Injected) + len(r.Failed)
}

// Duration returns the run's wall time.
func (r *Result) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// HasFailures reports whether any appointment failed.
func (r *Result) HasFailures() bool {
	return len(r.Errors) > 0
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	if r.DryRun {
		return fmt.Sprintf("Dry run: %d fetched, %d would be injected", r.Fetched, len(r.Skipped))
	}
	return fmt.Sprintf("%d fetched, %d injected, %d failed in %s",
		r.Fetched, len(r.Injected), len(r.Failed), r.Duration().Round(time.Millisecond))
}
