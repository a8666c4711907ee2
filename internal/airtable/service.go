package airtable

import (
	"context"

	"github.com/intakesync/intakesync/pkg/intake"
	"github.com/intakesync/intakesync/pkg/logging"
)

// Service wires the client and mapper into an appointment sink.
type Service struct {
	client         *Client
	mapper         *Mapper
	mapperOpts     []MapperOption
	timestampField string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTimestampField adds today's date under the named column on every
// injected record.
func WithTimestampField(field string) ServiceOption {
	return func(s *Service) {
		s.timestampField = field
	}
}

// WithMapperOptions forwards options to the mapper built at discovery.
func WithMapperOptions(opts ...MapperOption) ServiceOption {
	return func(s *Service) {
		s.mapperOpts = append(s.mapperOpts, opts...)
	}
}

// NewService creates a sink injecting appointments into the client's
// table.
func NewService(client *Client, opts ...ServiceOption) *Service {
	s := &Service{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Discover scans the table and rebuilds the field mapper from the
// columns found.
func (s *Service) Discover(ctx context.Context) error {
	names, err := s.client.FieldNames(ctx)
	if err != nil {
		return err
	}
	s.mapper = NewMapper(names, s.mapperOpts...)
	logging.FromContext(ctx).Info().
		Int("columns", len(names)).
		Str("table", s.client.Table()).
		Msg("Discovered table columns")
	return nil
}

// Columns returns the discovered column names, nil before Discover.
func (s *Service) Columns() []string {
	if s.mapper == nil {
		return nil
	}
	return s.mapper.Columns()
}

// Inject maps one appointment onto the table's columns and creates the
// record, returning its ID. The table is scanned first if Discover has
// not run yet.
func (s *Service) Inject(ctx context.Context, appointment intake.Appointment) (string, error) {
	if s.mapper == nil {
		if err := s.Discover(ctx); err != nil {
			return "", err
		}
	}

	matching := s.mapper.MatchingFields(appointment)
	fields := s.mapper.Map(ctx, appointment, matching, s.timestampField)
	logging.FromContext(ctx).Debug().
		Str("appointment_id", appointment.ID).
		Int("matching_fields", len(matching)).
		Int("fields", len(fields)).
		Msg("Injecting record")

	record, err := s.client.CreateRecord(ctx, fields)
	if err != nil {
		return "", err
	}
	return record.ID, nil
}
