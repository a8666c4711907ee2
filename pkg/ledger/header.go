package ledger

// MergeHeader widens an existing header with any record columns it does
// not already carry, preserving the existing column order and appending
// new columns in the record's encounter order. When existing is empty
// the base columns seed the result. The changed result reports whether
// the merged column set differs from the existing one.
func MergeHeader(existing, base []string, rec *Record) (merged []string, changed bool) {
	seen := make(map[string]bool, len(existing)+rec.Len())

	if len(existing) > 0 {
		merged = make([]string, 0, len(existing)+rec.Len())
		for _, col := range existing {
			if seen[col] {
				continue
			}
			seen[col] = true
			merged = append(merged, col)
		}
	} else {
		merged = make([]string, 0, len(base)+rec.Len())
		for _, col := range base {
			if seen[col] {
				continue
			}
			seen[col] = true
			merged = append(merged, col)
		}
	}

	for _, col := range rec.Columns() {
		if seen[col] {
			continue
		}
		seen[col] = true
		merged = append(merged, col)
	}

	changed = len(merged) != len(existing)
	return merged, changed
}
