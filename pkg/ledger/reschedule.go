package ledger

import (
	"context"
	"sort"

	"github.com/intakesync/intakesync/pkg/logging"
)

// InferReschedules derives the Rescheduled flag for a category file.
// Rows are grouped by business key; within a group holding more than
// one distinct non-empty temporal value, every row after the earliest
// whose temporal value differs from the earliest's is flagged Yes.
// The earliest row keeps whatever flag it already carries, so the
// original booking is never marked by its own reschedule.
//
// "Earliest" is ingestion order: rows sort by their first non-empty
// order column, ties keeping file order. The file is rewritten only
// when at least one flag actually flips. A file that is missing,
// unreadable, or lacks the flag column is left untouched.
func (l *Ledger) InferReschedules(ctx context.Context, category string) (int, error) {
	logger := logging.FromContext(ctx)
	path := l.Path(category)

	data, err := readFile(path)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("path", path).
			Msg("Skipping reschedule inference, category file unreadable")
		return 0, nil
	}
	if !headerHas(data.header, l.derivedFlag) || len(data.rows) == 0 {
		return 0, nil
	}

	groups := make(map[string][]int)
	var keys []string
	for i, row := range data.rows {
		key := row.Get(l.businessKey)
		if key == "" {
			continue
		}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], i)
	}

	updated := 0
	for _, key := range keys {
		indices := groups[key]
		if len(indices) < 2 {
			continue
		}

		distinct := make(map[string]bool)
		for _, i := range indices {
			if v := data.rows[i].Get(l.temporalKey); v != "" {
				distinct[v] = true
			}
		}
		if len(distinct) < 2 {
			continue
		}

		sort.SliceStable(indices, func(a, b int) bool {
			return l.orderValue(data.rows[indices[a]]) < l.orderValue(data.rows[indices[b]])
		})

		first := data.rows[indices[0]].Get(l.temporalKey)
		for _, i := range indices[1:] {
			row := data.rows[i]
			if row.Get(l.temporalKey) == first || row.Get(l.derivedFlag) == FlagYes {
				continue
			}
			row.Set(l.derivedFlag, FlagYes)
			updated++
			logger.Debug().
				Str("category", category).
				Str("appointment_id", key).
				Str("datetime", row.Get(l.temporalKey)).
				Msg("Marked row as rescheduled")
		}
	}

	if updated == 0 {
		return 0, nil
	}
	if err := writeFile(path, data.header, data.rows); err != nil {
		return updated, err
	}
	logger.Info().
		Str("category", category).
		Int("updated", updated).
		Msg("Updated reschedule flags")
	return updated, nil
}

// orderValue returns the row's ingestion-order sort key, the first
// non-empty value among the configured order columns.
func (l *Ledger) orderValue(rec *Record) string {
	for _, col := range l.orderKeys {
		if v := rec.Get(col); v != "" {
			return v
		}
	}
	return ""
}

func headerHas(header []string, column string) bool {
	for _, col := range header {
		if col == column {
			return true
		}
	}
	return false
}
