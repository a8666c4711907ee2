// Package intake defines the appointment types exchanged between the
// scheduler client and the ledger.
package intake

import (
	"strings"

	"github.com/agentstation/utc"
	"github.com/intakesync/intakesync/pkg/constants"
	"github.com/intakesync/intakesync/pkg/ledger"
)

// Appointment is one booking fetched from the scheduler, including the
// intake form answers attached to it.
type Appointment struct {
	ID          string `json:"id" yaml:"id"`
	ClientName  string `json:"client_name" yaml:"client_name"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone       string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Datetime    string `json:"datetime" yaml:"datetime"`                         // raw ISO timestamp from the API
	TypeName    string `json:"appointment_type" yaml:"appointment_type"`        // raw appointment type label
	Canceled    bool   `json:"canceled" yaml:"canceled"`
	DateCreated string `json:"date_created,omitempty" yaml:"date_created,omitempty"`
	Forms       []Form `json:"forms,omitempty" yaml:"forms,omitempty"`
}

// Form is one intake form attached to an appointment.
type Form struct {
	ID     int64       `json:"id" yaml:"id"`
	Name   string      `json:"name" yaml:"name"`
	Values []FormValue `json:"values,omitempty" yaml:"values,omitempty"`
}

// FormValue is a single question and its answer.
type FormValue struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Action values recorded in the activity log.
const (
	ActionProcessed = "PROCESSED"
	ActionCanceled  = "CANCELED"
)

// HasForms reports whether any form carries at least one answer.
func (a *Appointment) HasForms() bool {
	for _, form := range a.Forms {
		if len(form.Values) > 0 {
			return true
		}
	}
	return false
}

// Status returns the appointment's human status.
func (a *Appointment) Status() string {
	if a.Canceled {
		return "Canceled"
	}
	return "Active"
}

// Action returns the activity-log action for this appointment.
func (a *Appointment) Action() string {
	if a.Canceled {
		return ActionCanceled
	}
	return ActionProcessed
}

// EasternTime returns the scheduled time formatted for US Eastern.
func (a *Appointment) EasternTime() string {
	return FormatEastern(a.Datetime)
}

// Record flattens the appointment into a ledger record: the base
// columns first, then one column per form question in encounter order.
// Questions with blank names are dropped; a question repeated across
// forms keeps its first column position with the later answer.
// Rescheduled always starts No, the inference pass owns that flag.
func (a *Appointment) Record(now utc.Time) *ledger.Record {
	rec := ledger.NewRecord()
	rec.Set(ledger.ColumnSyncTimestamp, now.Format(constants.TimeFormatStamp))
	rec.Set(ledger.ColumnAppointmentID, a.ID)
	rec.Set(ledger.ColumnClientName, a.ClientName)
	rec.Set(ledger.ColumnEmail, a.Email)
	rec.Set(ledger.ColumnPhone, a.Phone)
	rec.Set(ledger.ColumnDateTime, a.EasternTime())
	rec.Set(ledger.ColumnCanceled, flag(a.Canceled))
	rec.Set(ledger.ColumnRescheduled, ledger.FlagNo)

	for _, form := range a.Forms {
		for _, value := range form.Values {
			name := strings.TrimSpace(value.Name)
			if name == "" {
				continue
			}
			rec.Set(name, value.Value)
		}
	}
	return rec
}

// ActivityRecord flattens the appointment into an activity-log row.
// The injection result and any remarks are supplied by the caller.
func (a *Appointment) ActivityRecord(now utc.Time, injected bool, recordID, notes string) *ledger.Record {
	rec := ledger.NewRecord()
	rec.Set(ledger.ColumnSyncTimestamp, now.Format(constants.TimeFormatStamp))
	rec.Set(ledger.ColumnAppointmentID, a.ID)
	rec.Set(ledger.ColumnClientName, a.ClientName)
	rec.Set(ledger.ColumnEmail, a.Email)
	rec.Set(ledger.ColumnPhone, a.Phone)
	rec.Set(ledger.ColumnDateTime, a.EasternTime())
	rec.Set(ledger.ColumnAppointmentType, a.TypeName)
	rec.Set(ledger.ColumnStatus, a.Status())
	rec.Set(ledger.ColumnCanceled, flag(a.Canceled))
	rec.Set(ledger.ColumnDateCreated, a.DateCreated)
	rec.Set(ledger.ColumnAction, a.Action())
	rec.Set(ledger.ColumnInjected, flag(injected))
	rec.Set(ledger.ColumnRecordID, recordID)
	rec.Set(ledger.ColumnNotes, notes)
	return rec
}

func flag(v bool) string {
	if v {
		return ledger.FlagYes
	}
	return ledger.FlagNo
}
