// Package constants provides shared constants used throughout the intakesync codebase.
// This includes timeouts, limits, file permissions, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to external APIs
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// FetchTimeout is the timeout for fetching appointments from the scheduler
	FetchTimeout = 2 * time.Minute

	// SyncTimeout is the timeout for a full sync run
	SyncTimeout = 30 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// DefaultLookbackHours is how far back a sync reaches for new appointments
	DefaultLookbackHours = 24

	// DefaultMaxAppointments is the default page size for scheduler listings
	DefaultMaxAppointments = 100

	// DefaultMaxRecords is the default number of spreadsheet records scanned
	// when discovering column names
	DefaultMaxRecords = 100

	// MaxCategoryNameLength caps generated category names
	MaxCategoryNameLength = 100

	// MinCategoryNameLength is the shortest category name considered meaningful
	MinCategoryNameLength = 3
)

// Rate limiting constants
const (
	// SchedulerRateLimit is the requests-per-second budget for the scheduler API
	SchedulerRateLimit = 10

	// SpreadsheetRateLimit is the requests-per-second budget for the
	// spreadsheet API (Airtable enforces 5 req/s per base)
	SpreadsheetRateLimit = 5

	// RateBurstSize is the token bucket burst size for rate limiting
	RateBurstSize = 2
)

// Path constants
const (
	// DefaultExportsDir is the default directory for category CSV files
	DefaultExportsDir = "exports"

	// DefaultActivityLogName is the filename of the main activity log
	DefaultActivityLogName = "appointments_log.csv"

	// DefaultRunLogName is the filename of the JSON run-state file
	DefaultRunLogName = "run_log.json"

	// DefaultConfigPath is the default path for configuration files
	DefaultConfigPath = "~/.intakesync.yaml"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatEastern is the human-readable shape of appointment datetimes
	// in category files ("March 9, 2026 4:00 PM EDT")
	TimeFormatEastern = "January 2, 2006 3:04 PM MST"

	// TimeFormatStamp is the format of ingestion timestamps in CSV rows
	TimeFormatStamp = "2006-01-02 15:04:05"

	// TimeFormatDate is the date-only format the scheduler API accepts
	// for range filters
	TimeFormatDate = "2006-01-02"

	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102-150405"
)

// External service constants
const (
	// AcuityBaseURL is the base URL of the Acuity Scheduling v1 API
	AcuityBaseURL = "https://acuityscheduling.com/api/v1"

	// AirtableBaseURL is the base URL of the Airtable REST API
	AirtableBaseURL = "https://api.airtable.com/v0"
)

// Error messages
const (
	// ErrMsgMissingCredentials is the standard error message for incomplete credentials
	ErrMsgMissingCredentials = "missing required credentials"

	// ErrMsgRateLimited is the standard error message for rate limiting
	ErrMsgRateLimited = "rate limit exceeded, please try again later"

	// ErrMsgTimeout is the standard error message for timeouts
	ErrMsgTimeout = "operation timed out"
)
