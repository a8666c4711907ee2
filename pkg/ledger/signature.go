package ledger

import (
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// Signature canonically identifies a record's business content. Every
// non-excluded column contributes a "col:value" entry with the value
// trimmed of surrounding whitespace, entries sorted by column name.
// Column order never matters. Rows read from a file are conformed to
// its header, so within one file an absent value and a present-but-
// empty value produce the same "col:" entry and are indistinguishable.
type Signature string

// DefaultExcludedColumns returns the ingestion-timestamp columns that
// never participate in record identity. Excluding them keeps re-fetches
// of unchanged appointments from producing new rows.
func DefaultExcludedColumns() []string {
	return []string{
		ColumnSyncTimestamp,
		ColumnExportTimestamp,
		ColumnLegacyTimestamp,
	}
}

// ExcludeSet builds a column-name lookup set for NewSignature.
func ExcludeSet(columns ...string) map[string]bool {
	set := make(map[string]bool, len(columns))
	for _, col := range columns {
		set[col] = true
	}
	return set
}

// NewSignature computes the canonical identity of a record, ignoring
// the excluded columns.
func NewSignature(rec *Record, excluded map[string]bool) Signature {
	parts := make([]string, 0, rec.Len())
	for _, col := range rec.Columns() {
		if excluded[col] {
			continue
		}
		parts = append(parts, col+":"+strings.TrimSpace(rec.Get(col)))
	}
	sort.Strings(parts)
	return Signature(strings.Join(parts, "|"))
}

// Hash64 returns a compact xxh3 digest of the signature, suitable for
// log fields where the full signature string would be unwieldy.
func (s Signature) Hash64() uint64 {
	return xxh3.HashString(string(s))
}

func (s Signature) String() string {
	return string(s)
}
