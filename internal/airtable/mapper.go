package airtable

import (
	"context"
	"strings"

	"github.com/agentstation/utc"
	"github.com/agnivade/levenshtein"

	"github.com/intakesync/intakesync/pkg/constants"
	"github.com/intakesync/intakesync/pkg/intake"
	"github.com/intakesync/intakesync/pkg/logging"
)

// DefaultEmailQuestion is the intake form label that carries the
// client's email address.
const DefaultEmailQuestion = "What is your email?"

// DefaultMultiSelectIndicators returns label substrings that mark a
// column as multi-select.
func DefaultMultiSelectIndicators() []string {
	return []string{"check all that apply", "select all"}
}

// Mapper translates appointment fields into rows keyed by the exact
// Airtable column names. Matching is done on whitespace-stripped names
// so a column padded in the table still lines up with its form label.
type Mapper struct {
	columns       []string
	exactNames    map[string]string // stripped -> exact column name
	multiSelect   map[string]bool   // stripped names of explicit multi-select columns
	indicators    []string
	emailQuestion string
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithMultiSelectFields names columns that are always multi-select,
// whatever their labels look like.
func WithMultiSelectFields(fields ...string) MapperOption {
	return func(m *Mapper) {
		for _, field := range fields {
			field = strings.TrimSpace(field)
			if field != "" {
				m.multiSelect[field] = true
			}
		}
	}
}

// WithMultiSelectIndicators replaces the label substrings that mark a
// column as multi-select.
func WithMultiSelectIndicators(indicators ...string) MapperOption {
	return func(m *Mapper) {
		m.indicators = nil
		for _, indicator := range indicators {
			indicator = strings.ToLower(strings.TrimSpace(indicator))
			if indicator != "" {
				m.indicators = append(m.indicators, indicator)
			}
		}
	}
}

// WithEmailQuestion replaces the form label treated as the email field.
func WithEmailQuestion(question string) MapperOption {
	return func(m *Mapper) {
		if question != "" {
			m.emailQuestion = question
		}
	}
}

// NewMapper creates a mapper over the given Airtable column names.
func NewMapper(columns []string, opts ...MapperOption) *Mapper {
	m := &Mapper{
		columns:       append([]string(nil), columns...),
		exactNames:    make(map[string]string, len(columns)),
		multiSelect:   make(map[string]bool),
		indicators:    DefaultMultiSelectIndicators(),
		emailQuestion: DefaultEmailQuestion,
	}
	for _, column := range columns {
		m.exactNames[strings.TrimSpace(column)] = column
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Columns returns the column names the mapper was built from.
func (m *Mapper) Columns() []string {
	return append([]string(nil), m.columns...)
}

// SourceFields returns the stripped field names an appointment offers:
// the fixed Name and email-question labels plus every form label.
func (m *Mapper) SourceFields(appointment intake.Appointment) map[string]bool {
	fields := map[string]bool{
		"Name":          true,
		m.emailQuestion: true,
	}
	for _, form := range appointment.Forms {
		for _, value := range form.Values {
			name := strings.TrimSpace(value.Name)
			if name != "" {
				fields[name] = true
			}
		}
	}
	return fields
}

// MatchingFields returns the source fields that exist as columns.
func (m *Mapper) MatchingFields(appointment intake.Appointment) map[string]bool {
	matching := make(map[string]bool)
	for name := range m.SourceFields(appointment) {
		if _, ok := m.exactNames[name]; ok {
			matching[name] = true
		}
	}
	return matching
}

// Map builds the field map for one appointment. Blank answers are
// dropped and multi-select answers converted to arrays. When matching
// is non-nil only those fields survive, renamed to the exact column
// spelling; each dropped field is logged with the nearest column by
// edit distance as a hint. A non-empty timestampField adds today's
// date under that column.
func (m *Mapper) Map(ctx context.Context, appointment intake.Appointment, matching map[string]bool, timestampField string) map[string]any {
	fields := make(map[string]any)
	if appointment.ClientName != "" {
		fields["Name"] = appointment.ClientName
	}
	if appointment.Email != "" {
		fields["Email"] = appointment.Email
	}

	for _, form := range appointment.Forms {
		for _, value := range form.Values {
			name := strings.TrimSpace(value.Name)
			if name == "" {
				continue
			}
			answer := strings.TrimSpace(value.Value)
			if answer == "" {
				continue
			}
			if m.IsMultiSelect(name) {
				fields[name] = splitMultiSelect(answer)
			} else {
				fields[name] = answer
			}
		}
	}

	if matching != nil {
		filtered := make(map[string]any, len(fields))
		for name, value := range fields {
			stripped := strings.TrimSpace(name)
			if !matching[stripped] {
				m.logDropped(ctx, stripped)
				continue
			}
			exact := stripped
			if column, ok := m.exactNames[stripped]; ok {
				exact = column
			}
			filtered[exact] = value
		}
		fields = filtered
	}

	if timestampField != "" {
		exact := timestampField
		if column, ok := m.exactNames[timestampField]; ok {
			exact = column
		}
		fields[exact] = utc.Now().Format(constants.TimeFormatDate)
	}
	return fields
}

// IsMultiSelect reports whether a field maps onto a multi-select column.
func (m *Mapper) IsMultiSelect(name string) bool {
	if m.multiSelect[strings.TrimSpace(name)] {
		return true
	}
	lower := strings.ToLower(name)
	for _, indicator := range m.indicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// NearestColumn returns the column closest to name by edit distance,
// ignoring case. An empty column set yields "".
func (m *Mapper) NearestColumn(name string) (string, int) {
	best := ""
	bestDistance := 0
	lower := strings.ToLower(name)
	for _, column := range m.columns {
		distance := levenshtein.ComputeDistance(lower, strings.ToLower(column))
		if best == "" || distance < bestDistance {
			best = column
			bestDistance = distance
		}
	}
	return best, bestDistance
}

// logDropped notes a source field with no matching column.
func (m *Mapper) logDropped(ctx context.Context, name string) {
	event := logging.FromContext(ctx).Debug().Str("field", name)
	if nearest, distance := m.NearestColumn(name); nearest != "" {
		event = event.Str("nearest_column", nearest).Int("distance", distance)
	}
	event.Msg("Dropping field with no matching column")
}

// splitMultiSelect converts a raw answer into the array form Airtable
// expects for multi-select columns. Comma-separated answers split into
// trimmed options.
func splitMultiSelect(value string) []string {
	if !strings.Contains(value, ",") {
		return []string{value}
	}
	parts := strings.Split(value, ",")
	options := make([]string, 0, len(parts))
	for _, part := range parts {
		options = append(options, strings.TrimSpace(part))
	}
	return options
}
