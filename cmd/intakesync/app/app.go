// Package app provides the application context and dependency management
// for the intakesync CLI. It centralizes configuration, logging, and the
// syncer instance behind a single dependency-injected App type.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/intakesync/intakesync"
	"github.com/intakesync/intakesync/internal/acuity"
	"github.com/intakesync/intakesync/internal/airtable"
	"github.com/intakesync/intakesync/pkg/errors"
)

// App represents the intakesync application with all its dependencies.
// It provides a centralized place for configuration, logging, and the
// syncer instance.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Syncer instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	syncer intakesync.Syncer
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration loaded from the environment
// that can be customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "loading configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// AcuityClient builds a scheduler client from the configured
// credentials.
func (a *App) AcuityClient() *acuity.Client {
	return acuity.New(a.config.AcuityUserID, a.config.AcuityAPIKey)
}

// AirtableClient builds a spreadsheet client from the configured
// credentials.
func (a *App) AirtableClient() *airtable.Client {
	return airtable.New(a.config.AirtableAPIKey, a.config.AirtableBaseID, a.config.AirtableTable)
}

// AirtableService wraps the spreadsheet client with the configured
// field-mapping behavior.
func (a *App) AirtableService() *airtable.Service {
	var opts []airtable.ServiceOption
	if mapperOpts := a.mapperOptions(); len(mapperOpts) > 0 {
		opts = append(opts, airtable.WithMapperOptions(mapperOpts...))
	}
	if a.config.TimestampField != "" {
		opts = append(opts, airtable.WithTimestampField(a.config.TimestampField))
	}
	return airtable.NewService(a.AirtableClient(), opts...)
}

// mapperOptions translates the field-mapping configuration into mapper
// options.
func (a *App) mapperOptions() []airtable.MapperOption {
	var opts []airtable.MapperOption
	if a.config.EmailQuestion != "" {
		opts = append(opts, airtable.WithEmailQuestion(a.config.EmailQuestion))
	}
	if len(a.config.MultiSelectFields) > 0 {
		opts = append(opts, airtable.WithMultiSelectFields(a.config.MultiSelectFields...))
	}
	return opts
}

// Syncer returns the syncer instance, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Syncer() (intakesync.Syncer, error) {
	a.mu.RLock()
	if a.syncer != nil {
		s := a.syncer
		a.mu.RUnlock()
		return s, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.syncer != nil {
		return a.syncer, nil
	}

	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	s, err := intakesync.New(a.buildSyncerOptions()...)
	if err != nil {
		return nil, err
	}

	a.syncer = s
	return s, nil
}

// SyncerWithOptions returns a new syncer with custom options appended
// to the configured ones. This is useful for commands that override
// paths or windows for a single invocation.
func (a *App) SyncerWithOptions(opts ...intakesync.Option) (intakesync.Syncer, error) {
	if err := a.config.Validate(); err != nil {
		return nil, err
	}
	return intakesync.New(append(a.buildSyncerOptions(), opts...)...)
}

// Shutdown performs graceful shutdown of the application.
// It stops any running background syncs.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.RLock()
	s := a.syncer
	a.mu.RUnlock()

	if s != nil {
		if err := s.AutoSyncOff(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to stop background sync during shutdown")
			return err
		}
	}
	return nil
}

// buildSyncerOptions constructs syncer options from the app configuration.
func (a *App) buildSyncerOptions() []intakesync.Option {
	opts := []intakesync.Option{
		intakesync.WithSource(a.AcuityClient()),
		intakesync.WithSink(a.AirtableService()),
		intakesync.WithExportsDir(a.config.ExportsDir),
		intakesync.WithActivityLog(a.config.ActivityLog),
		intakesync.WithRunLog(a.config.RunLog),
		intakesync.WithLookback(time.Duration(a.config.LookbackHours) * time.Hour),
		intakesync.WithIncludeCanceled(a.config.IncludeCanceled),
	}

	if len(a.config.Keywords) > 0 {
		opts = append(opts, intakesync.WithKeywords(a.config.Keywords...))
	}
	if a.config.FallbackCategory != "" {
		opts = append(opts, intakesync.WithFallbackCategory(a.config.FallbackCategory))
	}
	if a.config.AutoSyncInterval > 0 {
		opts = append(opts, intakesync.WithAutoSyncInterval(a.config.AutoSyncInterval))
	}

	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithSyncer sets a custom syncer instance (useful for testing).
func WithSyncer(s intakesync.Syncer) Option {
	return func(a *App) error {
		a.syncer = s
		return nil
	}
}
