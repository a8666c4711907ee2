package intake

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/intakesync/intakesync/pkg/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAppointment() *Appointment {
	return &Appointment{
		ID:          "98765",
		ClientName:  "Ada Lovelace",
		Email:       "ada@example.com",
		Phone:       "555-0100",
		Datetime:    "2026-03-09T16:00:00-0400",
		TypeName:    "FREE | Product Development Help Desk (Jane Doe)",
		DateCreated: "March 1, 2026",
		Forms: []Form{
			{
				ID:   42,
				Name: "Intake Questions",
				Values: []FormValue{
					{Name: "Company", Value: "Initech"},
					{Name: "  Role  ", Value: "Engineer"},
					{Name: "", Value: "dropped"},
				},
			},
		},
	}
}

func fixedNow(t *testing.T) utc.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", "2026-08-01 10:00:00")
	require.NoError(t, err)
	return utc.Time{Time: parsed}
}

func TestAppointmentRecord(t *testing.T) {
	rec := testAppointment().Record(fixedNow(t))

	assert.Equal(t, "2026-08-01 10:00:00", rec.Get(ledger.ColumnSyncTimestamp))
	assert.Equal(t, "98765", rec.Get(ledger.ColumnAppointmentID))
	assert.Equal(t, "Ada Lovelace", rec.Get(ledger.ColumnClientName))
	assert.Equal(t, "ada@example.com", rec.Get(ledger.ColumnEmail))
	assert.Equal(t, "555-0100", rec.Get(ledger.ColumnPhone))
	assert.Equal(t, "March 9, 2026 4:00 PM EDT", rec.Get(ledger.ColumnDateTime))
	assert.Equal(t, ledger.FlagNo, rec.Get(ledger.ColumnCanceled))
	assert.Equal(t, ledger.FlagNo, rec.Get(ledger.ColumnRescheduled))
	assert.Equal(t, "Initech", rec.Get("Company"))
	assert.Equal(t, "Engineer", rec.Get("Role"))
	assert.False(t, rec.Has(""))

	// Base columns come first, question columns follow in form order.
	cols := rec.Columns()
	require.GreaterOrEqual(t, len(cols), 10)
	assert.Equal(t, ledger.BaseHeader(), cols[:8])
	assert.Equal(t, []string{"Company", "Role"}, cols[8:10])
}

func TestAppointmentRecordCanceled(t *testing.T) {
	appt := testAppointment()
	appt.Canceled = true

	rec := appt.Record(fixedNow(t))
	assert.Equal(t, ledger.FlagYes, rec.Get(ledger.ColumnCanceled))
	assert.Equal(t, "Canceled", appt.Status())
}

func TestAppointmentRecordRepeatedQuestion(t *testing.T) {
	appt := testAppointment()
	appt.Forms = append(appt.Forms, Form{
		ID:   43,
		Name: "Follow Up",
		Values: []FormValue{
			{Name: "Company", Value: "Globex"},
		},
	})

	rec := appt.Record(fixedNow(t))
	assert.Equal(t, "Globex", rec.Get("Company"))

	cols := rec.Columns()
	assert.Equal(t, "Company", cols[8])
}

func TestHasForms(t *testing.T) {
	appt := testAppointment()
	assert.True(t, appt.HasForms())

	appt.Forms = []Form{{ID: 1, Name: "Empty"}}
	assert.False(t, appt.HasForms())

	appt.Forms = nil
	assert.False(t, appt.HasForms())
}

func TestStatus(t *testing.T) {
	appt := testAppointment()
	assert.Equal(t, "Active", appt.Status())
	appt.Canceled = true
	assert.Equal(t, "Canceled", appt.Status())
}

func TestAction(t *testing.T) {
	appt := testAppointment()
	assert.Equal(t, ActionProcessed, appt.Action())
	appt.Canceled = true
	assert.Equal(t, ActionCanceled, appt.Action())
}

func TestActivityRecord(t *testing.T) {
	appt := testAppointment()
	rec := appt.ActivityRecord(fixedNow(t), true, "recABC123", "Injected successfully")

	assert.Equal(t, "2026-08-01 10:00:00", rec.Get(ledger.ColumnSyncTimestamp))
	assert.Equal(t, "98765", rec.Get(ledger.ColumnAppointmentID))
	assert.Equal(t, "March 9, 2026 4:00 PM EDT", rec.Get(ledger.ColumnDateTime))
	assert.Equal(t, appt.TypeName, rec.Get(ledger.ColumnAppointmentType))
	assert.Equal(t, "Active", rec.Get(ledger.ColumnStatus))
	assert.Equal(t, ledger.FlagNo, rec.Get(ledger.ColumnCanceled))
	assert.Equal(t, "March 1, 2026", rec.Get(ledger.ColumnDateCreated))
	assert.Equal(t, ActionProcessed, rec.Get(ledger.ColumnAction))
	assert.Equal(t, ledger.FlagYes, rec.Get(ledger.ColumnInjected))
	assert.Equal(t, "recABC123", rec.Get(ledger.ColumnRecordID))
	assert.Equal(t, "Injected successfully", rec.Get(ledger.ColumnNotes))

	// The row slots straight into the fixed activity header.
	assert.Equal(t, ledger.ActivityHeader(), rec.Columns())
}

func TestActivityRecordFailedInjection(t *testing.T) {
	appt := testAppointment()
	appt.Canceled = true
	rec := appt.ActivityRecord(fixedNow(t), false, "", "Injection failed: boom")

	assert.Equal(t, "Canceled", rec.Get(ledger.ColumnStatus))
	assert.Equal(t, ledger.FlagYes, rec.Get(ledger.ColumnCanceled))
	assert.Equal(t, ActionCanceled, rec.Get(ledger.ColumnAction))
	assert.Equal(t, ledger.FlagNo, rec.Get(ledger.ColumnInjected))
	assert.Equal(t, "", rec.Get(ledger.ColumnRecordID))
	assert.Equal(t, "Injection failed: boom", rec.Get(ledger.ColumnNotes))
}
