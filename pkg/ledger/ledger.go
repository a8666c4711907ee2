// Package ledger maintains append-only CSV files of intake records,
// one file per category plus a cross-category activity log.
//
// Category files are the system of record: rows are appended, never
// edited by hand, and never removed except by the duplicate sweep.
// Each append is guarded by a content signature so that re-fetching an
// unchanged appointment leaves the file untouched, while a genuine
// change (a new time, a cancellation) lands as a fresh row. Headers
// widen in place as new intake questions appear, and a post-append
// inference pass derives the Rescheduled flag from rows that share a
// business key but disagree on their scheduled time.
package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/intakesync/intakesync/pkg/errors"
	"github.com/intakesync/intakesync/pkg/logging"
)

// Outcome describes what Append did with a record.
type Outcome int

const (
	// OutcomeSkipped means an existing row carried the same signature.
	OutcomeSkipped Outcome = iota

	// OutcomeNew means the record's business key had not been seen before.
	OutcomeNew

	// OutcomeChanged means the business key was already present but the
	// record's content differed, typically a reschedule or cancellation.
	OutcomeChanged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNew:
		return "new"
	case OutcomeChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// Appended reports whether the outcome added a row to the file.
func (o Outcome) Appended() bool {
	return o == OutcomeNew || o == OutcomeChanged
}

// Ledger manages the category files under a single directory.
type Ledger struct {
	dir         string
	base        []string
	excluded    map[string]bool
	businessKey string
	temporalKey string
	derivedFlag string
	orderKeys   []string
}

// Option configures a Ledger.
type Option func(*Ledger) error

// WithBaseHeader overrides the leading columns written to new files.
func WithBaseHeader(columns ...string) Option {
	return func(l *Ledger) error {
		if len(columns) == 0 {
			return errors.NewValidationError("base_header", columns, "must not be empty")
		}
		l.base = append([]string(nil), columns...)
		return nil
	}
}

// WithExcludedColumns overrides the columns excluded from signatures.
func WithExcludedColumns(columns ...string) Option {
	return func(l *Ledger) error {
		l.excluded = ExcludeSet(columns...)
		return nil
	}
}

// WithBusinessKey overrides the column grouping rows into one real-world
// entity for reschedule inference and outcome classification.
func WithBusinessKey(column string) Option {
	return func(l *Ledger) error {
		if column == "" {
			return errors.NewValidationError("business_key", column, "must not be empty")
		}
		l.businessKey = column
		return nil
	}
}

// WithTemporalKey overrides the column whose changes mark a reschedule.
func WithTemporalKey(column string) Option {
	return func(l *Ledger) error {
		if column == "" {
			return errors.NewValidationError("temporal_key", column, "must not be empty")
		}
		l.temporalKey = column
		return nil
	}
}

// WithDerivedFlag overrides the column the inference pass maintains.
func WithDerivedFlag(column string) Option {
	return func(l *Ledger) error {
		if column == "" {
			return errors.NewValidationError("derived_flag", column, "must not be empty")
		}
		l.derivedFlag = column
		return nil
	}
}

// WithOrderColumns overrides the ingestion-order columns used to sort
// rows within a business-key group. The first non-empty value wins.
func WithOrderColumns(columns ...string) Option {
	return func(l *Ledger) error {
		if len(columns) == 0 {
			return errors.NewValidationError("order_columns", columns, "must not be empty")
		}
		l.orderKeys = append([]string(nil), columns...)
		return nil
	}
}

// New creates a Ledger rooted at dir, creating the directory if needed.
func New(dir string, opts ...Option) (*Ledger, error) {
	if dir == "" {
		return nil, errors.NewValidationError("dir", dir, "must not be empty")
	}
	l := &Ledger{
		dir:         dir,
		base:        BaseHeader(),
		excluded:    ExcludeSet(DefaultExcludedColumns()...),
		businessKey: ColumnAppointmentID,
		temporalKey: ColumnDateTime,
		derivedFlag: ColumnRescheduled,
		orderKeys:   []string{ColumnExportTimestamp, ColumnSyncTimestamp},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(l); err != nil {
			return nil, fmt.Errorf("applying ledger option: %w", err)
		}
	}
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return l, nil
}

// Dir returns the directory holding the category files.
func (l *Ledger) Dir() string {
	return l.dir
}

// Path returns the file path backing a category.
func (l *Ledger) Path(category string) string {
	return filepath.Join(l.dir, category+".csv")
}

// Categories lists the categories present on disk, sorted by name.
func (l *Ledger) Categories() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO("list", l.dir, err)
	}
	var categories []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".csv") {
			continue
		}
		categories = append(categories, strings.TrimSuffix(name, ".csv"))
	}
	sort.Strings(categories)
	return categories, nil
}

// Rows reads a category file and returns its header and rows. A missing
// file yields a nil header and no rows.
func (l *Ledger) Rows(category string) ([]string, []*Record, error) {
	data, err := readFile(l.Path(category))
	if err != nil {
		return nil, nil, err
	}
	return data.header, data.rows, nil
}

// Append adds a record to a category file unless an existing row already
// carries the same signature. The header widens in place when the record
// introduces new columns, and the reschedule inference and duplicate
// sweep run after every append so the file converges within the call.
// An unreadable file is treated as absent and started fresh.
func (l *Ledger) Append(ctx context.Context, category string, rec *Record) (Outcome, error) {
	if category == "" {
		return OutcomeSkipped, errors.NewValidationError("category", category, "must not be empty")
	}
	if rec == nil || rec.Len() == 0 {
		return OutcomeSkipped, errors.NewValidationError("record", rec, "must not be empty")
	}

	logger := logging.FromContext(ctx)
	path := l.Path(category)

	data, err := readFile(path)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("path", path).
			Msg("Category file unreadable, starting fresh")
		data = &fileData{}
	}
	if data.skipped > 0 {
		logger.Warn().
			Str("path", path).
			Int("skipped_lines", data.skipped).
			Msg("Skipped malformed lines in category file")
	}

	// Both sides are signed over the merged header so a column absent
	// from one record and present-but-empty in the other reads as the
	// same content.
	merged, widened := MergeHeader(data.header, l.base, rec)
	sig := NewSignature(conform(merged, rec), l.excluded)

	for _, row := range data.rows {
		if NewSignature(conform(merged, row), l.excluded) == sig {
			logger.Debug().
				Str("category", category).
				Uint64("signature", sig.Hash64()).
				Msg("Skipping duplicate record")
			return OutcomeSkipped, nil
		}
	}

	outcome := OutcomeNew
	if key := rec.Get(l.businessKey); key != "" {
		for _, row := range data.rows {
			if row.Get(l.businessKey) == key {
				outcome = OutcomeChanged
				break
			}
		}
	}

	if len(data.header) > 0 && widened {
		logger.Info().
			Str("category", category).
			Int("columns", len(merged)).
			Msg("Widening category file header")
		data.rows = append(data.rows, rec)
		if err := writeFile(path, merged, data.rows); err != nil {
			return outcome, err
		}
	} else {
		if err := appendRow(path, merged, rec, len(data.header) == 0); err != nil {
			return outcome, err
		}
	}

	logger.Debug().
		Str("category", category).
		Str("outcome", outcome.String()).
		Uint64("signature", sig.Hash64()).
		Msg("Appended record")

	if _, err := l.InferReschedules(ctx, category); err != nil {
		return outcome, err
	}
	if _, err := l.Dedupe(ctx, category); err != nil {
		return outcome, err
	}
	return outcome, nil
}
