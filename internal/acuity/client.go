// Package acuity provides a client for the Acuity Scheduling API.
//
// Appointments are fetched over HTTP basic auth and converted to
// intake.Appointment values ready for categorization and export.
// Requests are rate limited to stay inside the per-client quota.
package acuity

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/intakesync/intakesync/internal/transport"
	"github.com/intakesync/intakesync/pkg/constants"
	"github.com/intakesync/intakesync/pkg/errors"
	"github.com/intakesync/intakesync/pkg/intake"
	"github.com/intakesync/intakesync/pkg/logging"
)

// ServiceName identifies this client in errors and log fields.
const ServiceName = "acuity"

// appointmentResponse represents an appointment as returned by the API.
type appointmentResponse struct {
	ID              int64          `json:"id"`
	FirstName       string         `json:"firstName"`
	LastName        string         `json:"lastName"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	Datetime        string         `json:"datetime"`
	Type            string         `json:"type"`
	Canceled        bool           `json:"canceled"`
	DatetimeCreated string         `json:"datetimeCreated"`
	Forms           []formResponse `json:"forms"`
}

// formResponse represents one intake form attached to an appointment.
type formResponse struct {
	ID     int64               `json:"id"`
	Name   string              `json:"name"`
	Values []formValueResponse `json:"values"`
}

// formValueResponse represents a single question and answer on a form.
type formValueResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Client represents an Acuity Scheduling API client.
type Client struct {
	transport *transport.Client
	baseURL   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTransport replaces the underlying HTTP transport.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// New creates an Acuity client authenticating with the given user ID
// and API key.
func New(userID, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: constants.AcuityBaseURL,
		transport: transport.New(
			&transport.BasicAuth{Username: userID, Password: apiKey},
			transport.WithRateLimit(constants.SchedulerRateLimit, constants.RateBurstSize),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListOptions narrows an appointment listing.
type ListOptions struct {
	// MinDate keeps appointments on or after this date, in YYYY-MM-DD form.
	MinDate string
	// MaxDate keeps appointments on or before this date, in YYYY-MM-DD form.
	MaxDate string
	// Max caps the number of returned appointments. Zero means
	// constants.DefaultMaxAppointments.
	Max int
}

// Appointments lists appointments matching opts.
func (c *Client) Appointments(ctx context.Context, opts ListOptions) ([]intake.Appointment, error) {
	maxResults := opts.Max
	if maxResults <= 0 {
		maxResults = constants.DefaultMaxAppointments
	}

	query := url.Values{}
	query.Set("max", strconv.Itoa(maxResults))
	if opts.MinDate != "" {
		query.Set("minDate", opts.MinDate)
	}
	if opts.MaxDate != "" {
		query.Set("maxDate", opts.MaxDate)
	}

	logging.FromContext(ctx).Debug().
		Str("min_date", opts.MinDate).
		Str("max_date", opts.MaxDate).
		Int("max", maxResults).
		Msg("Fetching appointments")

	resp, err := c.transport.Get(ctx, c.baseURL+"/appointments?"+query.Encode())
	if err != nil {
		return nil, errors.WrapAPI(ServiceName, 0, err)
	}

	var results []appointmentResponse
	if err := transport.DecodeResponse(ServiceName, resp, &results); err != nil {
		return nil, err
	}

	appointments := make([]intake.Appointment, 0, len(results))
	for _, result := range results {
		appointments = append(appointments, convertAppointment(result))
	}
	return appointments, nil
}

// AppointmentByID fetches a single appointment. The returned error
// matches errors.ErrNotFound when no appointment has the given ID.
func (c *Client) AppointmentByID(ctx context.Context, id int64) (*intake.Appointment, error) {
	resp, err := c.transport.Get(ctx, fmt.Sprintf("%s/appointments/%d", c.baseURL, id))
	if err != nil {
		return nil, errors.WrapAPI(ServiceName, 0, err)
	}

	var result appointmentResponse
	if err := transport.DecodeResponse(ServiceName, resp, &result); err != nil {
		return nil, err
	}

	appointment := convertAppointment(result)
	return &appointment, nil
}

// convertAppointment maps a wire appointment onto the intake type.
func convertAppointment(resp appointmentResponse) intake.Appointment {
	appointment := intake.Appointment{
		ID:          strconv.FormatInt(resp.ID, 10),
		ClientName:  strings.TrimSpace(resp.FirstName + " " + resp.LastName),
		Email:       resp.Email,
		Phone:       resp.Phone,
		Datetime:    resp.Datetime,
		TypeName:    resp.Type,
		Canceled:    resp.Canceled,
		DateCreated: resp.DatetimeCreated,
	}
	for _, form := range resp.Forms {
		values := make([]intake.FormValue, 0, len(form.Values))
		for _, value := range form.Values {
			values = append(values, intake.FormValue{Name: value.Name, Value: value.Value})
		}
		appointment.Forms = append(appointment.Forms, intake.Form{ID: form.ID, Name: form.Name, Values: values})
	}
	return appointment
}
