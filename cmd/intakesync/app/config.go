package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/intakesync/intakesync/pkg/category"
	"github.com/intakesync/intakesync/pkg/constants"
	"github.com/intakesync/intakesync/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Scheduler credentials
	AcuityUserID string
	AcuityAPIKey string

	// Spreadsheet credentials
	AirtableAPIKey string
	AirtableBaseID string
	AirtableTable  string

	// Sync configuration
	ExportsDir       string
	ActivityLog      string
	RunLog           string
	LookbackHours    int
	IncludeCanceled  bool
	AutoSyncInterval time.Duration

	// Field mapping configuration
	EmailQuestion     string
	TimestampField    string
	MultiSelectFields []string

	// Categorization configuration
	Keywords         []string
	FallbackCategory string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.intakesync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindCredentials()
	setDefaults()

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".intakesync")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Format:  viper.GetString("format"),

		ConfigFile: viper.ConfigFileUsed(),

		AcuityUserID: viper.GetString("acuity_user_id"),
		AcuityAPIKey: viper.GetString("acuity_api_key"),

		AirtableAPIKey: viper.GetString("airtable_api_key"),
		AirtableBaseID: viper.GetString("airtable_base_id"),
		AirtableTable:  viper.GetString("airtable_table_name"),

		ExportsDir:       viper.GetString("exports_dir"),
		ActivityLog:      viper.GetString("activity_log"),
		RunLog:           viper.GetString("run_log"),
		LookbackHours:    viper.GetInt("lookback_hours"),
		IncludeCanceled:  viper.GetBool("include_canceled"),
		AutoSyncInterval: viper.GetDuration("auto_sync_interval"),

		EmailQuestion:     viper.GetString("email_question"),
		TimestampField:    viper.GetString("timestamp_field"),
		MultiSelectFields: viper.GetStringSlice("multi_select_fields"),

		Keywords:         viper.GetStringSlice("category_keywords"),
		FallbackCategory: viper.GetString("fallback_category"),

		LogLevel:  viper.GetString("log_level"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Validate checks that every required credential is present.
func (c *Config) Validate() error {
	missing := c.missingAcuity()
	missing = append(missing, c.missingAirtable()...)
	return credentialsError(missing)
}

// ValidateAcuity checks the scheduler credentials only.
func (c *Config) ValidateAcuity() error {
	return credentialsError(c.missingAcuity())
}

// ValidateAirtable checks the spreadsheet credentials only.
func (c *Config) ValidateAirtable() error {
	return credentialsError(c.missingAirtable())
}

func (c *Config) missingAcuity() []string {
	var missing []string
	if c.AcuityUserID == "" {
		missing = append(missing, "ACUITY_USER_ID")
	}
	if c.AcuityAPIKey == "" {
		missing = append(missing, "ACUITY_API_KEY")
	}
	return missing
}

func (c *Config) missingAirtable() []string {
	var missing []string
	if c.AirtableAPIKey == "" {
		missing = append(missing, "AIRTABLE_API_KEY")
	}
	if c.AirtableBaseID == "" {
		missing = append(missing, "AIRTABLE_BASE_ID")
	}
	if c.AirtableTable == "" {
		missing = append(missing, "AIRTABLE_TABLE_NAME")
	}
	return missing
}

func credentialsError(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return errors.NewConfigError("credentials",
		"missing required configuration: "+strings.Join(missing, ", "), nil)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindCredentials explicitly binds the credential environment variables
// to Viper.
func bindCredentials() {
	keys := []string{
		"ACUITY_USER_ID",
		"ACUITY_API_KEY",
		"AIRTABLE_API_KEY",
		"AIRTABLE_BASE_ID",
		"AIRTABLE_TABLE_NAME",
	}

	for _, key := range keys {
		if err := viper.BindEnv(key); err != nil {
			// Not critical, AutomaticEnv covers exported variables
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}

// setDefaults installs the defaults applied when neither flags, env,
// nor the config file provide a value.
func setDefaults() {
	viper.SetDefault("exports_dir", constants.DefaultExportsDir)
	viper.SetDefault("activity_log", constants.DefaultActivityLogName)
	viper.SetDefault("run_log", constants.DefaultRunLogName)
	viper.SetDefault("lookback_hours", constants.DefaultLookbackHours)
	viper.SetDefault("include_canceled", true)
	viper.SetDefault("category_keywords", category.DefaultKeywords())
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
