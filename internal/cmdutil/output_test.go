package cmdutil

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"JSON", FormatJSON, false},
		{"", "", false},
		{"xml", "", true},
	}

	for _, test := range tests {
		got, err := ParseFormat(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
		}
		if got != test.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	if got := DetectFormat("YAML"); got != FormatYAML {
		t.Errorf("DetectFormat(YAML) = %q, want %q", got, FormatYAML)
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON)

	data := map[string]int{"rows": 3}
	if err := f.Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := buf.String(); !strings.Contains(got, `"rows": 3`) {
		t.Errorf("Format() = %q, want indented JSON", got)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatYAML)

	data := struct {
		Category string `yaml:"category"`
		Rows     int    `yaml:"rows"`
	}{"startup_essentials", 12}
	if err := f.Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "category: startup_essentials") || !strings.Contains(got, "rows: 12") {
		t.Errorf("Format() = %q, want yaml keys", got)
	}
}

func TestTableFormatterData(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatTable)

	data := Data{
		Headers: []string{"Category", "Rows"},
		Rows: [][]string{
			{"startup_essentials", "12"},
			{"advisor_1_on_1_session", "7"},
		},
	}
	if err := f.Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	got := buf.String()
	for _, want := range []string{"Category", "startup_essentials", "advisor_1_on_1_session", "7"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "CATEGORY") {
		t.Errorf("table output uppercased the header:\n%s", got)
	}
}

func TestTableFormatterStructSlice(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatTable)

	data := []struct {
		ID         string `json:"id"`
		ClientName string `json:"client_name"`
	}{
		{"101", "Dana Whitfield"},
		{"102", "Luis Ortega"},
	}
	if err := f.Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	got := buf.String()
	// Headers come from json tags, title-cased.
	for _, want := range []string{"Id", "Client Name", "Dana Whitfield", "102"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q:\n%s", want, got)
		}
	}
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatTable)

	if err := f.Format(&buf, map[string]string{"status": "ok"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := buf.String(); !strings.Contains(got, `"status": "ok"`) {
		t.Errorf("Format() = %q, want JSON fallback", got)
	}
}
