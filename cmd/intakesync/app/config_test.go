package app

import (
	"os"
	"strings"
	"testing"
	"time"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config == nil {
		t.Fatal("LoadConfig() returned nil config")
	}

	// Verify defaults are set
	// Note: LogLevel may be empty (triggers precedence logic in logger.go)
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
	if config.ExportsDir == "" {
		t.Error("ExportsDir not set to default")
	}
	if config.LookbackHours <= 0 {
		t.Errorf("LookbackHours = %d, want positive default", config.LookbackHours)
	}
	if len(config.Keywords) == 0 {
		t.Error("Keywords not set to defaults")
	}
}

// TestConfig_Credentials verifies credential environment variable loading.
func TestConfig_Credentials(t *testing.T) {
	vars := map[string]string{
		"ACUITY_USER_ID":      "12345",
		"ACUITY_API_KEY":      "acuity-secret",
		"AIRTABLE_API_KEY":    "airtable-secret",
		"AIRTABLE_BASE_ID":    "appBASE123",
		"AIRTABLE_TABLE_NAME": "Imported table",
	}

	// Save and restore env
	saved := make(map[string]string, len(vars))
	for key, value := range vars {
		saved[key] = os.Getenv(key)
		os.Setenv(key, value)
	}
	defer func() {
		for key, value := range saved {
			os.Setenv(key, value)
		}
	}()

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.AcuityUserID != "12345" {
		t.Errorf("AcuityUserID = %s, want 12345", config.AcuityUserID)
	}
	if config.AcuityAPIKey != "acuity-secret" {
		t.Errorf("AcuityAPIKey = %s, want acuity-secret", config.AcuityAPIKey)
	}
	if config.AirtableAPIKey != "airtable-secret" {
		t.Errorf("AirtableAPIKey = %s, want airtable-secret", config.AirtableAPIKey)
	}
	if config.AirtableBaseID != "appBASE123" {
		t.Errorf("AirtableBaseID = %s, want appBASE123", config.AirtableBaseID)
	}
	if config.AirtableTable != "Imported table" {
		t.Errorf("AirtableTable = %s, want Imported table", config.AirtableTable)
	}
}

// TestConfig_SyncSettings verifies sync environment variable loading.
func TestConfig_SyncSettings(t *testing.T) {
	oldDir := os.Getenv("EXPORTS_DIR")
	oldHours := os.Getenv("LOOKBACK_HOURS")
	oldCanceled := os.Getenv("INCLUDE_CANCELED")
	defer func() {
		os.Setenv("EXPORTS_DIR", oldDir)
		os.Setenv("LOOKBACK_HOURS", oldHours)
		os.Setenv("INCLUDE_CANCELED", oldCanceled)
	}()

	os.Setenv("EXPORTS_DIR", "/tmp/intakesync-test")
	os.Setenv("LOOKBACK_HOURS", "48")
	os.Setenv("INCLUDE_CANCELED", "false")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.ExportsDir != "/tmp/intakesync-test" {
		t.Errorf("ExportsDir = %s, want /tmp/intakesync-test", config.ExportsDir)
	}
	if config.LookbackHours != 48 {
		t.Errorf("LookbackHours = %d, want 48", config.LookbackHours)
	}
	if config.IncludeCanceled {
		t.Error("IncludeCanceled = true, want false")
	}
}

// TestConfig_AutoSyncInterval verifies time duration parsing.
func TestConfig_AutoSyncInterval(t *testing.T) {
	oldInterval := os.Getenv("AUTO_SYNC_INTERVAL")
	defer os.Setenv("AUTO_SYNC_INTERVAL", oldInterval)

	os.Setenv("AUTO_SYNC_INTERVAL", "1h")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.AutoSyncInterval != time.Hour {
		t.Errorf("AutoSyncInterval = %v, want 1h", config.AutoSyncInterval)
	}
}

// TestConfig_LoggingOptions verifies logging configuration.
func TestConfig_LoggingOptions(t *testing.T) {
	oldLevel := os.Getenv("LOG_LEVEL")
	oldFormat := os.Getenv("LOG_FORMAT")
	oldOutput := os.Getenv("LOG_OUTPUT")
	defer func() {
		os.Setenv("LOG_LEVEL", oldLevel)
		os.Setenv("LOG_FORMAT", oldFormat)
		os.Setenv("LOG_OUTPUT", oldOutput)
	}()

	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	os.Setenv("LOG_OUTPUT", "stdout")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", config.LogLevel)
	}
	if config.LogFormat != "json" {
		t.Errorf("LogFormat = %s, want json", config.LogFormat)
	}
	if config.LogOutput != "stdout" {
		t.Errorf("LogOutput = %s, want stdout", config.LogOutput)
	}
}

// TestConfig_UpdateFromFlags verifies flag precedence over loaded values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{
		Format:   "table",
		LogLevel: "info",
	}

	config.UpdateFromFlags(true, false, true, "json", "debug")

	if !config.Verbose {
		t.Error("Verbose not updated from flags")
	}
	if config.Quiet {
		t.Error("Quiet = true, want false")
	}
	if !config.NoColor {
		t.Error("NoColor not updated from flags")
	}
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", config.LogLevel)
	}

	// Empty flag values leave the loaded values alone
	config.UpdateFromFlags(false, false, false, "", "")
	if config.Format != "json" {
		t.Errorf("Format = %s, want json after empty flag", config.Format)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug after empty flag", config.LogLevel)
	}
}

// TestConfig_Validate verifies credential validation.
func TestConfig_Validate(t *testing.T) {
	full := &Config{
		AcuityUserID:   "12345",
		AcuityAPIKey:   "a",
		AirtableAPIKey: "b",
		AirtableBaseID: "c",
		AirtableTable:  "d",
	}
	if err := full.Validate(); err != nil {
		t.Errorf("Validate() with all credentials failed: %v", err)
	}

	tests := []struct {
		name    string
		config  *Config
		missing []string
	}{
		{
			name:    "everything missing",
			config:  &Config{},
			missing: []string{"ACUITY_USER_ID", "ACUITY_API_KEY", "AIRTABLE_API_KEY", "AIRTABLE_BASE_ID", "AIRTABLE_TABLE_NAME"},
		},
		{
			name: "airtable table missing",
			config: &Config{
				AcuityUserID:   "12345",
				AcuityAPIKey:   "a",
				AirtableAPIKey: "b",
				AirtableBaseID: "c",
			},
			missing: []string{"AIRTABLE_TABLE_NAME"},
		},
		{
			name: "acuity key missing",
			config: &Config{
				AcuityUserID:   "12345",
				AirtableAPIKey: "b",
				AirtableBaseID: "c",
				AirtableTable:  "d",
			},
			missing: []string{"ACUITY_API_KEY"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if err == nil {
				t.Fatal("Validate() succeeded, want error")
			}
			for _, name := range tt.missing {
				if !strings.Contains(err.Error(), name) {
					t.Errorf("Validate() error = %v, want mention of %s", err, name)
				}
			}
		})
	}
}

// TestConfig_ValidatePartial verifies the per-service validators check
// only their own credentials.
func TestConfig_ValidatePartial(t *testing.T) {
	config := &Config{
		AcuityUserID: "12345",
		AcuityAPIKey: "a",
	}

	if err := config.ValidateAcuity(); err != nil {
		t.Errorf("ValidateAcuity() failed: %v", err)
	}
	if err := config.ValidateAirtable(); err == nil {
		t.Error("ValidateAirtable() succeeded without credentials")
	}
}
