package ledger

import (
	"encoding/csv"
	"os"

	"github.com/intakesync/intakesync/pkg/constants"
	pkgerrors "github.com/intakesync/intakesync/pkg/errors"
)

// Columns that appear only in the activity log.
const (
	// ColumnAppointmentType is the raw appointment type label.
	ColumnAppointmentType = "Appointment Type"

	// ColumnStatus is the human status, Active or Canceled.
	ColumnStatus = "Status"

	// ColumnDateCreated is when the booking was created upstream.
	ColumnDateCreated = "Date Created"

	// ColumnAction records what the run did with the appointment.
	ColumnAction = "Action"

	// ColumnInjected is the Yes/No datastore injection result.
	ColumnInjected = "Injected to Airtable"

	// ColumnRecordID is the datastore record identifier, when injected.
	ColumnRecordID = "Airtable Record ID"

	// ColumnNotes carries free-form remarks such as injection errors.
	ColumnNotes = "Notes"
)

// ActivityHeader returns the fixed columns of the activity log.
func ActivityHeader() []string {
	return []string{
		ColumnSyncTimestamp,
		ColumnAppointmentID,
		ColumnClientName,
		ColumnEmail,
		ColumnPhone,
		ColumnDateTime,
		ColumnAppointmentType,
		ColumnStatus,
		ColumnCanceled,
		ColumnDateCreated,
		ColumnAction,
		ColumnInjected,
		ColumnRecordID,
		ColumnNotes,
	}
}

// ActivityLog is the append-only audit trail of every appointment a run
// touches, across all categories. Its header is fixed: rows are never
// deduplicated, rewritten, or widened, so the log preserves the full
// history even when category files converge.
type ActivityLog struct {
	path   string
	header []string
}

// NewActivityLog creates an activity log backed by the given file.
func NewActivityLog(path string) *ActivityLog {
	return &ActivityLog{
		path:   path,
		header: ActivityHeader(),
	}
}

// Path returns the file backing the log.
func (a *ActivityLog) Path() string {
	return a.path
}

// Init writes the header if the log does not exist yet.
func (a *ActivityLog) Init() error {
	if _, err := os.Stat(a.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return pkgerrors.WrapIO("stat", a.path, err)
	}
	return a.write(nil)
}

// Append adds one row to the log, creating it with a header if needed.
// Record columns outside the fixed header are ignored.
func (a *ActivityLog) Append(rec *Record) error {
	if _, err := os.Stat(a.path); os.IsNotExist(err) {
		return a.write(rec)
	}
	f, err := os.OpenFile(a.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, constants.FilePermissions)
	if err != nil {
		return pkgerrors.WrapIO("append", a.path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(rec.row(a.header)); err != nil {
		f.Close()
		return pkgerrors.WrapIO("append", a.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return pkgerrors.WrapIO("append", a.path, err)
	}
	if err := f.Close(); err != nil {
		return pkgerrors.WrapIO("append", a.path, err)
	}
	return nil
}

// write creates the log with its header and, when rec is non-nil, a
// first row.
func (a *ActivityLog) write(rec *Record) error {
	f, err := os.OpenFile(a.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return pkgerrors.WrapIO("create", a.path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(a.header); err != nil {
		f.Close()
		return pkgerrors.WrapIO("create", a.path, err)
	}
	if rec != nil {
		if err := w.Write(rec.row(a.header)); err != nil {
			f.Close()
			return pkgerrors.WrapIO("create", a.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return pkgerrors.WrapIO("create", a.path, err)
	}
	if err := f.Close(); err != nil {
		return pkgerrors.WrapIO("create", a.path, err)
	}
	return nil
}
