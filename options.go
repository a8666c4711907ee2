package intakesync

import (
	"time"

	"github.com/intakesync/intakesync/pkg/category"
	"github.com/intakesync/intakesync/pkg/constants"
)

// config holds the assembled configuration of a Syncer.
type config struct {
	source           Source
	sink             Sink
	classifier       *category.Classifier
	keywords         []string
	fallback         string
	exportsDir       string
	activityLogPath  string
	runLogPath       string
	lookback         time.Duration
	includeCanceled  bool
	autoSyncInterval time.Duration
}

// defaults returns the configuration used when no options override it.
func defaults() *config {
	return &config{
		exportsDir:      constants.DefaultExportsDir,
		activityLogPath: constants.DefaultActivityLogName,
		runLogPath:      constants.DefaultRunLogName,
		lookback:        constants.DefaultLookbackHours * time.Hour,
		includeCanceled: true,
	}
}

// apply runs each option over the config.
func (c *config) apply(opts ...Option) (*config, error) {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Option is a function that configures a Syncer instance.
type Option func(*config) error

// WithSource sets the scheduling API the syncer fetches from.
func WithSource(source Source) Option {
	return func(c *config) error {
		c.source = source
		return nil
	}
}

// WithSink sets the datastore the syncer injects into.
func WithSink(sink Sink) Option {
	return func(c *config) error {
		c.sink = sink
		return nil
	}
}

// WithClassifier sets a fully built classifier, overriding WithKeywords
// and WithFallbackCategory.
func WithClassifier(classifier *category.Classifier) Option {
	return func(c *config) error {
		c.classifier = classifier
		return nil
	}
}

// WithKeywords sets the keywords used to extract a category from an
// appointment type label.
func WithKeywords(keywords ...string) Option {
	return func(c *config) error {
		c.keywords = append([]string(nil), keywords...)
		return nil
	}
}

// WithFallbackCategory sets the category used when no keyword matches
// and the label looks like a person's name.
func WithFallbackCategory(name string) Option {
	return func(c *config) error {
		c.fallback = name
		return nil
	}
}

// WithExportsDir sets the directory holding per-category CSV files.
func WithExportsDir(dir string) Option {
	return func(c *config) error {
		c.exportsDir = dir
		return nil
	}
}

// WithActivityLog sets the path of the append-only activity log.
func WithActivityLog(path string) Option {
	return func(c *config) error {
		c.activityLogPath = path
		return nil
	}
}

// WithRunLog sets the path of the JSON last-run state file.
func WithRunLog(path string) Option {
	return func(c *config) error {
		c.runLogPath = path
		return nil
	}
}

// WithLookback sets the default fetch window for Sync.
func WithLookback(lookback time.Duration) Option {
	return func(c *config) error {
		c.lookback = lookback
		return nil
	}
}

// WithIncludeCanceled sets whether canceled appointments are fetched
// and injected by default.
func WithIncludeCanceled(enabled bool) Option {
	return func(c *config) error {
		c.includeCanceled = enabled
		return nil
	}
}

// WithAutoSyncInterval sets how often AutoSyncOn runs a background
// sync.
func WithAutoSyncInterval(interval time.Duration) Option {
	return func(c *config) error {
		c.autoSyncInterval = interval
		return nil
	}
}
