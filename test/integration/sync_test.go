package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/intakesync/intakesync"
	"github.com/intakesync/intakesync/internal/acuity"
	"github.com/intakesync/intakesync/internal/airtable"
	"github.com/intakesync/intakesync/pkg/ledger"
)

// acuityAppointment builds one appointment in the scheduler's wire
// format, created two hours ago so it lands inside any lookback window.
func acuityAppointment(id int, first, last, typeName string, canceled bool) map[string]any {
	email := strings.ToLower(first) + "@example.com"
	return map[string]any{
		"id":              id,
		"firstName":       first,
		"lastName":        last,
		"email":           email,
		"phone":           "555-0101",
		"datetime":        "2026-03-09T16:00:00-0400",
		"type":            typeName,
		"canceled":        canceled,
		"datetimeCreated": time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339),
		"forms": []map[string]any{
			{
				"id":   1,
				"name": "Intake",
				"values": []map[string]any{
					{"name": "Program", "value": "MBA"},
					{"name": "What is your email?", "value": email},
				},
			},
		},
	}
}

// newAcuityServer serves a fixed appointment listing with basic auth.
func newAcuityServer(t *testing.T, appointments []map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/appointments" {
			http.NotFound(w, r)
			return
		}
		if user, _, ok := r.BasicAuth(); !ok || user != "acuity-user" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(appointments)
	}))
	t.Cleanup(server.Close)
	return server
}

// fakeAirtable is an HTTP double for one Airtable table. It seeds the
// listing endpoint with a single record so column discovery works, and
// captures every record created through the API.
type fakeAirtable struct {
	mu      sync.Mutex
	seed    map[string]any
	created []map[string]any
	server  *httptest.Server
}

func newFakeAirtable(t *testing.T, columns ...string) *fakeAirtable {
	t.Helper()
	seed := make(map[string]any, len(columns))
	for i, column := range columns {
		seed[column] = fmt.Sprintf("seed-%d", i)
	}

	f := &fakeAirtable{seed: seed}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer airtable-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"records": []map[string]any{{"id": "recseed0", "fields": f.seed}},
			})
		case http.MethodPost:
			var body struct {
				Fields map[string]any `json:"fields"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f.mu.Lock()
			f.created = append(f.created, body.Fields)
			n := len(f.created)
			f.mu.Unlock()
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     fmt.Sprintf("rec%03d", n),
				"fields": body.Fields,
			})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAirtable) createdFields() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.created...)
}

// newSyncer wires real API clients against the test servers.
func newSyncer(t *testing.T, acuityURL, airtableURL string) intakesync.Syncer {
	t.Helper()
	dir := t.TempDir()

	source := acuity.New("acuity-user", "acuity-key", acuity.WithBaseURL(acuityURL))
	sink := airtable.NewService(
		airtable.New("airtable-key", "appTESTBASE", "Imported table", airtable.WithBaseURL(airtableURL)),
	)

	s, err := intakesync.New(
		intakesync.WithSource(source),
		intakesync.WithSink(sink),
		intakesync.WithExportsDir(filepath.Join(dir, "exports")),
		intakesync.WithActivityLog(filepath.Join(dir, "activity.csv")),
		intakesync.WithRunLog(filepath.Join(dir, "runlog.json")),
		intakesync.WithKeywords("help desk", "workshop"),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s
}

func TestSyncEndToEnd(t *testing.T) {
	noForms := acuityAppointment(303, "Casey", "Quinn", "Startup Funding Workshop", false)
	noForms["forms"] = []map[string]any{}

	acuitySrv := newAcuityServer(t, []map[string]any{
		acuityAppointment(101, "Taylor", "Reed", "FREE | Product Development Help Desk", false),
		acuityAppointment(202, "Morgan", "Casey", "Startup Funding Workshop", true),
		noForms,
	})
	airtableSrv := newFakeAirtable(t, "Name", "Program", "What is your email?", "Status")

	s := newSyncer(t, acuitySrv.URL, airtableSrv.server.URL)
	result, err := s.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}

	// The form-less appointment never leaves the source
	if result.Fetched != 2 {
		t.Errorf("Fetched = %d, want 2", result.Fetched)
	}
	if len(result.Injected) != 2 {
		t.Fatalf("Injected = %v, want 2 appointments", result.Injected)
	}
	if len(result.Failed) != 0 {
		t.Errorf("Failed = %v, want none", result.Failed)
	}
	if result.Outcomes[ledger.OutcomeNew] != 2 {
		t.Errorf("Outcomes[new] = %d, want 2", result.Outcomes[ledger.OutcomeNew])
	}

	// Each injection maps only fields with matching table columns
	created := airtableSrv.createdFields()
	if len(created) != 2 {
		t.Fatalf("created %d records, want 2", len(created))
	}
	first := created[0]
	if first["Name"] != "Taylor Reed" {
		t.Errorf("Name = %v, want Taylor Reed", first["Name"])
	}
	if first["Program"] != "MBA" {
		t.Errorf("Program = %v, want MBA", first["Program"])
	}
	if first["What is your email?"] != "taylor@example.com" {
		t.Errorf("email answer = %v, want taylor@example.com", first["What is your email?"])
	}
	if _, ok := first["Email"]; ok {
		t.Error("record carries an Email field, but the table has no Email column")
	}

	// Appointments land in per-category export files
	categories, err := s.Ledger().Categories()
	if err != nil {
		t.Fatalf("Categories() failed: %v", err)
	}
	want := []string{"product_development_help_desk", "startup_funding_workshop"}
	if len(categories) != len(want) {
		t.Fatalf("Categories() = %v, want %v", categories, want)
	}
	for i, category := range want {
		if categories[i] != category {
			t.Errorf("Categories()[%d] = %s, want %s", i, categories[i], category)
		}
	}

	header, rows, err := s.Ledger().Rows("startup_funding_workshop")
	if err != nil {
		t.Fatalf("Rows() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Rows() returned %d rows, want 1", len(rows))
	}
	if got := rows[0].Get(ledger.ColumnAppointmentID); got != "202" {
		t.Errorf("Appointment ID = %s, want 202", got)
	}
	if got := rows[0].Get(ledger.ColumnCanceled); got != ledger.FlagYes {
		t.Errorf("Canceled = %s, want %s", got, ledger.FlagYes)
	}
	if got := header[len(header)-2]; got != "Program" {
		t.Errorf("second to last header column = %s, want Program", got)
	}
	if got := header[len(header)-1]; got != "What is your email?" {
		t.Errorf("last header column = %s, want the email question", got)
	}
}

func TestSyncRepeatRunCreatesNoDuplicates(t *testing.T) {
	acuitySrv := newAcuityServer(t, []map[string]any{
		acuityAppointment(101, "Taylor", "Reed", "Startup Funding Workshop", false),
	})
	airtableSrv := newFakeAirtable(t, "Name", "Program")

	s := newSyncer(t, acuitySrv.URL, airtableSrv.server.URL)
	ctx := context.Background()

	if _, err := s.Sync(ctx); err != nil {
		t.Fatalf("first Sync() failed: %v", err)
	}
	second, err := s.Sync(ctx)
	if err != nil {
		t.Fatalf("second Sync() failed: %v", err)
	}

	// The spreadsheet is append-only upstream, so the second run injects
	// again, but the export ledger recognizes the unchanged content.
	if second.Outcomes[ledger.OutcomeSkipped] != 1 {
		t.Errorf("Outcomes[skipped] = %d, want 1", second.Outcomes[ledger.OutcomeSkipped])
	}

	_, rows, err := s.Ledger().Rows("startup_funding_workshop")
	if err != nil {
		t.Fatalf("Rows() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Rows() returned %d rows after two runs, want 1", len(rows))
	}
}

func TestSyncExcludesCanceledOnRequest(t *testing.T) {
	acuitySrv := newAcuityServer(t, []map[string]any{
		acuityAppointment(101, "Taylor", "Reed", "Startup Funding Workshop", false),
		acuityAppointment(202, "Morgan", "Casey", "Startup Funding Workshop", true),
	})
	airtableSrv := newFakeAirtable(t, "Name", "Program")

	s := newSyncer(t, acuitySrv.URL, airtableSrv.server.URL)
	result, err := s.Sync(context.Background(), intakesync.SyncWithIncludeCanceled(false))
	if err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}

	if result.Fetched != 1 {
		t.Errorf("Fetched = %d, want 1", result.Fetched)
	}
	if len(result.Injected) != 1 || result.Injected[0] != "101" {
		t.Errorf("Injected = %v, want [101]", result.Injected)
	}
}
