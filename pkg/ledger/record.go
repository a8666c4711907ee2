package ledger

// Column names shared by every category file.
const (
	// ColumnSyncTimestamp is the ingestion timestamp stamped on each row.
	ColumnSyncTimestamp = "Sync Timestamp"

	// ColumnExportTimestamp is the legacy name of the ingestion timestamp,
	// still present in files written by earlier exporters.
	ColumnExportTimestamp = "Export Timestamp"

	// ColumnLegacyTimestamp is the oldest ingestion timestamp name.
	ColumnLegacyTimestamp = "Timestamp"

	// ColumnAppointmentID is the business key issued by the scheduler.
	ColumnAppointmentID = "Appointment ID"

	// ColumnClientName is the client's full name.
	ColumnClientName = "Client Name"

	// ColumnEmail is the client's email address.
	ColumnEmail = "Email"

	// ColumnPhone is the client's phone number.
	ColumnPhone = "Phone"

	// ColumnDateTime is the human-formatted scheduled time of the event.
	ColumnDateTime = "Appointment DateTime"

	// ColumnCanceled is the Yes/No cancellation status supplied upstream.
	ColumnCanceled = "Canceled"

	// ColumnRescheduled is the Yes/No flag maintained by the inference pass,
	// never supplied upstream.
	ColumnRescheduled = "Rescheduled"
)

// Values used by the Canceled and Rescheduled flag columns.
const (
	FlagYes = "Yes"
	FlagNo  = "No"
)

// BaseHeader returns the fixed leading columns of a new category file.
// Question columns from intake forms are appended after these in the
// order they are first encountered.
func BaseHeader() []string {
	return []string{
		ColumnSyncTimestamp,
		ColumnAppointmentID,
		ColumnClientName,
		ColumnEmail,
		ColumnPhone,
		ColumnDateTime,
		ColumnCanceled,
		ColumnRescheduled,
	}
}

// Record is an ordered mapping from column name to scalar value.
// Column order is preserved from insertion so that new columns reach
// the file header in encounter order.
type Record struct {
	columns []string
	values  map[string]string
}

// NewRecord creates an empty Record.
func NewRecord() *Record {
	return &Record{
		values: make(map[string]string),
	}
}

// Set assigns a value to a column, registering the column on first use.
func (r *Record) Set(column, value string) {
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Get returns the value of a column, or the empty string when absent.
func (r *Record) Get(column string) string {
	return r.values[column]
}

// Has reports whether the column is present in the record.
func (r *Record) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// Columns returns the record's column names in insertion order.
func (r *Record) Columns() []string {
	cols := make([]string, len(r.columns))
	copy(cols, r.columns)
	return cols
}

// Len returns the number of columns in the record.
func (r *Record) Len() int {
	return len(r.columns)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{
		columns: make([]string, len(r.columns)),
		values:  make(map[string]string, len(r.values)),
	}
	copy(c.columns, r.columns)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// row renders the record as CSV cells conforming to the given header.
// Absent columns become empty strings.
func (r *Record) row(header []string) []string {
	cells := make([]string, len(header))
	for i, col := range header {
		cells[i] = r.values[col]
	}
	return cells
}

// conform rebuilds a record against header, back-filling absent
// columns with empty strings and dropping columns outside it.
func conform(header []string, rec *Record) *Record {
	return fromRow(header, rec.row(header))
}

// fromRow builds a Record from a header and a raw CSV row. Short rows
// are padded with empty strings and extra cells are dropped, so every
// Record conforms to the header it was read under.
func fromRow(header, cells []string) *Record {
	rec := NewRecord()
	for i, col := range header {
		if i < len(cells) {
			rec.Set(col, cells[i])
		} else {
			rec.Set(col, "")
		}
	}
	return rec
}
