package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/intakesync/intakesync/pkg/logging"
)

// TestSetDefaultRoutesPackageHelpers verifies the package-level event
// helpers write through a replaced default logger.
func TestSetDefaultRoutesPackageHelpers(t *testing.T) {
	buf := &bytes.Buffer{}
	original := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	defer func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(originalLevel)
	}()

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logging.SetDefault(zerolog.New(buf).Level(zerolog.DebugLevel))

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warn message")
	logging.Err(nil).Msg("err message")
	logging.WithLevel(zerolog.InfoLevel).Msg("leveled message")

	output := buf.String()
	for _, want := range []string{"debug message", "info message", "warn message", "err message", "leveled message"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q, got: %s", want, output)
		}
	}
}

// TestNewProducesJSON verifies New and NewJSON emit structured JSON.
func TestNewProducesJSON(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	buf := &bytes.Buffer{}
	logger := logging.New(buf)
	logger.Info().Str("category", "startup_essentials").Msg("appended")

	output := buf.String()
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("New output not JSON: %s", output)
	}
	if !strings.Contains(output, `"category":"startup_essentials"`) {
		t.Errorf("New output missing field: %s", output)
	}

	buf.Reset()
	jsonLogger := logging.NewJSON(buf)
	jsonLogger.Info().Msg("json entry")
	if !strings.Contains(buf.String(), `"message":"json entry"`) {
		t.Errorf("NewJSON output not JSON: %s", buf.String())
	}
}

// TestContextFieldHelpers verifies the domain field helpers stack onto
// the logger carried in a context.
func TestContextFieldHelpers(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithService(ctx, "acuity")
	ctx = logging.WithAppointment(ctx, "98765")
	ctx = logging.WithCategory(ctx, "strategy_session")
	ctx = logging.WithOperation(ctx, "append")

	logging.FromContext(ctx).Info().Msg("processing record")

	testLogger.AssertContains(t, `"service":"acuity"`)
	testLogger.AssertContains(t, `"appointment_id":"98765"`)
	testLogger.AssertContains(t, `"category":"strategy_session"`)
	testLogger.AssertContains(t, `"operation":"append"`)
	testLogger.AssertContains(t, "processing record")
}

// TestFromContextFallsBack verifies missing or nil contexts yield the
// default logger instead of nil.
func TestFromContextFallsBack(t *testing.T) {
	if logging.FromContext(context.Background()) == nil {
		t.Error("FromContext(empty) = nil, want default logger")
	}
	if logging.Ctx(context.Background()) == nil {
		t.Error("Ctx(empty) = nil, want default logger")
	}
}

// TestTestLoggerCapture verifies the capture helper counts, matches,
// and clears entries.
func TestTestLoggerCapture(t *testing.T) {
	tl := logging.NewTestLogger(t)

	tl.Logger.Info().Msg("first entry")
	tl.Logger.Error().Msg("second entry")

	tl.AssertContains(t, "first entry")
	tl.AssertContains(t, "second entry")
	tl.AssertNotContains(t, "third entry")
	tl.AssertCount(t, 2)

	if !tl.ContainsAll("first entry", "second entry") {
		t.Error("ContainsAll = false, want true")
	}

	tl.Clear()
	if tl.Count() != 0 {
		t.Errorf("Count after Clear = %d, want 0", tl.Count())
	}
}

// TestNewConsole verifies the console logger constructor is usable.
func TestNewConsole(t *testing.T) {
	logger := logging.NewConsole()
	logger.Info().Msg("console probe")
}
