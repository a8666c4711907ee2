package ledger

import (
	"context"

	"github.com/intakesync/intakesync/pkg/logging"
)

// Dedupe removes rows whose signature duplicates an earlier row,
// keeping the first occurrence. The file is rewritten only when at
// least one row is removed; a missing or unreadable file is left
// untouched.
func (l *Ledger) Dedupe(ctx context.Context, category string) (int, error) {
	logger := logging.FromContext(ctx)
	path := l.Path(category)

	data, err := readFile(path)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("path", path).
			Msg("Skipping duplicate sweep, category file unreadable")
		return 0, nil
	}
	if len(data.rows) == 0 {
		return 0, nil
	}

	seen := make(map[Signature]bool, len(data.rows))
	kept := make([]*Record, 0, len(data.rows))
	removed := 0
	for _, row := range data.rows {
		sig := NewSignature(row, l.excluded)
		if seen[sig] {
			removed++
			continue
		}
		seen[sig] = true
		kept = append(kept, row)
	}

	if removed == 0 {
		return 0, nil
	}
	if err := writeFile(path, data.header, kept); err != nil {
		return removed, err
	}
	logger.Info().
		Str("category", category).
		Int("removed", removed).
		Int("remaining", len(kept)).
		Msg("Removed duplicate rows")
	return removed, nil
}
