package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeHeaderSeedsFromBase(t *testing.T) {
	rec := record(ColumnAppointmentID, "100", "Favorite Color", "Blue")

	merged, changed := MergeHeader(nil, BaseHeader(), rec)

	assert.True(t, changed)
	assert.Equal(t, append(BaseHeader(), "Favorite Color"), merged)
}

func TestMergeHeaderUnchanged(t *testing.T) {
	existing := BaseHeader()
	rec := record(ColumnAppointmentID, "100", ColumnClientName, "Ada Lovelace")

	merged, changed := MergeHeader(existing, BaseHeader(), rec)

	assert.False(t, changed)
	assert.Equal(t, existing, merged)
}

func TestMergeHeaderAppendsNewColumns(t *testing.T) {
	existing := BaseHeader()
	rec := record(
		ColumnAppointmentID, "100",
		"Company", "Initech",
		"Role", "Engineer",
	)

	merged, changed := MergeHeader(existing, BaseHeader(), rec)

	assert.True(t, changed)
	assert.Equal(t, append(BaseHeader(), "Company", "Role"), merged)
}

func TestMergeHeaderPreservesExistingOrder(t *testing.T) {
	existing := []string{ColumnAppointmentID, "Company", ColumnClientName}
	rec := record(ColumnClientName, "Ada Lovelace", "Role", "Engineer")

	merged, changed := MergeHeader(existing, BaseHeader(), rec)

	assert.True(t, changed)
	assert.Equal(t, []string{ColumnAppointmentID, "Company", ColumnClientName, "Role"}, merged)
}
