package intake

import (
	"sync"
	"time"

	"github.com/intakesync/intakesync/pkg/constants"
)

// Layouts the scheduler is known to emit. The first carries a colon in
// the offset, the second the bare "-0400" form the API actually sends.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

var (
	easternOnce sync.Once
	easternLoc  *time.Location
)

func eastern() *time.Location {
	easternOnce.Do(func() {
		easternLoc, _ = time.LoadLocation("America/New_York")
	})
	return easternLoc
}

// ParseTimestamp parses a scheduler timestamp. Timestamps without an
// offset are taken as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range datetimeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// FormatEastern renders a scheduler timestamp as a human-readable US
// Eastern time, for example "March 9, 2026 4:00 PM EDT". Input that
// cannot be parsed, and an unavailable zone database, pass the value
// through unchanged.
func FormatEastern(value string) string {
	if value == "" {
		return ""
	}
	loc := eastern()
	if loc == nil {
		return value
	}
	t, err := ParseTimestamp(value)
	if err != nil {
		return value
	}
	return t.In(loc).Format(constants.TimeFormatEastern)
}
