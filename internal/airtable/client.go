// Package airtable provides a client for the Airtable REST API and the
// field mapping that turns appointments into spreadsheet rows.
//
// The table schema is discovered by scanning existing records, because
// empty cells never appear in the API response and a single record
// therefore understates the column set.
package airtable

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/intakesync/intakesync/internal/transport"
	"github.com/intakesync/intakesync/pkg/constants"
	"github.com/intakesync/intakesync/pkg/errors"
	"github.com/intakesync/intakesync/pkg/logging"
)

// ServiceName identifies this client in errors and log fields.
const ServiceName = "airtable"

// Record represents one Airtable record.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// listResponse represents a page of records from the list endpoint.
type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// createRequest is the body of a record creation call.
type createRequest struct {
	Fields map[string]any `json:"fields"`
}

// Client represents an Airtable API client bound to one table.
type Client struct {
	transport *transport.Client
	baseURL   string
	baseID    string
	table     string
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

// New creates a client for one table of one base, authenticating with
// the given API key.
func New(apiKey, baseID, table string, opts ...Option) *Client {
	c := &Client{
		baseURL: constants.AirtableBaseURL,
		baseID:  baseID,
		table:   table,
		transport: transport.New(
			&transport.BearerAuth{Token: apiKey},
			transport.WithRateLimit(constants.SpreadsheetRateLimit, constants.RateBurstSize),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Table returns the table name this client writes to.
func (c *Client) Table() string {
	return c.table
}

func (c *Client) tableURL() string {
	return c.baseURL + "/" + c.baseID + "/" + url.PathEscape(c.table)
}

// Records lists up to max records, following pagination offsets. A
// non-positive max falls back to constants.DefaultMaxRecords.
func (c *Client) Records(ctx context.Context, max int) ([]Record, error) {
	if max <= 0 {
		max = constants.DefaultMaxRecords
	}

	var records []Record
	offset := ""
	for {
		query := url.Values{}
		query.Set("maxRecords", strconv.Itoa(max))
		if offset != "" {
			query.Set("offset", offset)
		}

		resp, err := c.transport.Get(ctx, c.tableURL()+"?"+query.Encode())
		if err != nil {
			return nil, errors.WrapAPI(ServiceName, 0, err)
		}

		var page listResponse
		if err := transport.DecodeResponse(ServiceName, resp, &page); err != nil {
			return nil, err
		}
		records = append(records, page.Records...)

		if page.Offset == "" || len(records) >= max {
			break
		}
		offset = page.Offset
	}

	if len(records) > max {
		records = records[:max]
	}
	return records, nil
}

// FieldNames returns the sorted union of field names across a scan of
// the table. An empty table yields an empty list, not an error.
func (c *Client) FieldNames(ctx context.Context) ([]string, error) {
	records, err := c.Records(ctx, constants.DefaultMaxRecords)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		logging.FromContext(ctx).Warn().
			Str("table", c.table).
			Msg("No records found in table, cannot discover fields")
		return nil, nil
	}

	seen := make(map[string]bool)
	for _, record := range records {
		for name := range record.Fields {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CreateRecord creates one record with the given fields and returns it.
func (c *Client) CreateRecord(ctx context.Context, fields map[string]any) (*Record, error) {
	resp, err := c.transport.Post(ctx, c.tableURL(), createRequest{Fields: fields})
	if err != nil {
		return nil, errors.WrapAPI(ServiceName, 0, err)
	}

	var record Record
	if err := transport.DecodeResponse(ServiceName, resp, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
