package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/RyanBlaney/wavecap/configs"
	"github.com/RyanBlaney/wavecap/pkg/capture"
	"github.com/RyanBlaney/wavecap/pkg/output"
	"github.com/RyanBlaney/wavecap/pkg/source"
	"github.com/RyanBlaney/wavecap/pkg/trigger"
	"github.com/RyanBlaney/wavecap/pkg/zaplog"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	OutputFile   string
	OutputFormat string
	SourceType   string
	Cycles       int
	Realtime     bool
	Verbose      bool
	Quiet        bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config

	// Stdin, Stdout and Stderr default to the process streams. Stdin is
	// only read by the keys trigger.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CaptureApp handles the capture application lifecycle
type CaptureApp struct {
	ctx    *Context
	config *configs.Config
	logger logging.Logger
}

// NewCaptureApp loads configuration and sets up logging
func NewCaptureApp(ctx *Context) (*CaptureApp, error) {
	config := ctx.Config
	if config == nil {
		loaded, err := configs.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		config = loaded
	}

	mergeCaptureConfig(config, ctx)

	if err := configs.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	ctx.Config = config

	logger, err := setupLogging(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	ctx.Logger = logger

	if ctx.Stdin == nil {
		ctx.Stdin = os.Stdin
	}
	if ctx.Stdout == nil {
		ctx.Stdout = os.Stdout
	}
	if ctx.Stderr == nil {
		ctx.Stderr = os.Stderr
	}

	logger.Debug("Capture application initialized", logging.Fields{
		"source":        string(config.Source.Type),
		"trigger":       config.Trigger.Mode,
		"output_format": config.OutputFormat,
		"cycles":        config.Capture.Cycles,
		"realtime":      config.Capture.Realtime,
	})

	return &CaptureApp{
		ctx:    ctx,
		config: config,
		logger: logger,
	}, nil
}

// Run executes capture cycles until the trigger is exhausted or ctx ends
func (app *CaptureApp) Run(ctx context.Context) error {
	config := app.config

	clock, sleeper := app.timebase()

	sourceConfig := config.Source
	sourceConfig.Clock = clock
	src, err := source.NewFactory().Create(&sourceConfig)
	if err != nil {
		return fmt.Errorf("failed to create sample source: %w", err)
	}

	trig, stopSignals := app.buildTrigger(ctx, clock)
	defer stopSignals()

	sink, display, closeOutput, err := app.buildOutput()
	if err != nil {
		return err
	}
	defer closeOutput()

	session := capture.NewSession(config.SessionConfig(clock, app.logger))

	monitor, err := NewMonitor(MonitorConfig{
		Session:      session,
		Source:       src,
		Trigger:      trig,
		Sink:         sink,
		Display:      display,
		Clock:        clock,
		Sleeper:      sleeper,
		Logger:       app.logger,
		TickInterval: config.Capture.TickInterval,
		Hold:         config.Capture.Hold,
		MaxCycles:    config.Capture.Cycles,
	})
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}

	if err := monitor.Run(ctx); err != nil {
		return fmt.Errorf("capture loop failed: %w", err)
	}

	app.logger.Debug("Capture run finished", logging.Fields{
		"cycles":  monitor.Cycles(),
		"reports": monitor.Published(),
	})
	return nil
}

// timebase picks wall-clock time or a simulated clock advanced per tick
func (app *CaptureApp) timebase() (capture.Clock, Sleeper) {
	if app.config.Capture.Realtime {
		return capture.SystemClock{}, RealSleeper{}
	}
	clock := capture.NewManualClock(time.Now().UTC())
	return clock, VirtualSleeper{Clock: clock}
}

// buildTrigger returns the configured trigger and a function releasing it
func (app *CaptureApp) buildTrigger(ctx context.Context, clock capture.Clock) (capture.TriggerSource, func()) {
	switch app.config.Trigger.Mode {
	case configs.TriggerModeSignal:
		manual := trigger.NewManual()
		stop := watchSignals(ctx, manual, app.logger)
		return manual, stop
	case configs.TriggerModeKeys:
		keysCtx, cancel := context.WithCancel(ctx)
		pad := newKeyPad()
		watchKeys(keysCtx, app.ctx.Stdin, pad, app.logger)
		return newKeyTrigger(pad, app.config.Trigger.StopLevel), cancel
	}

	return trigger.NewSchedule(clock, app.scheduleConfig()), func() {}
}

// scheduleConfig stretches the gap between scheduled captures to cover the
// hold, so the next start never lands on a held result
func (app *CaptureApp) scheduleConfig() trigger.ScheduleConfig {
	gap := max(app.config.Trigger.Gap, app.config.Capture.Hold)
	if gap != app.config.Trigger.Gap {
		app.logger.Debug("Schedule gap extended to hold time", logging.Fields{
			"gap_ms":  app.config.Trigger.Gap.Milliseconds(),
			"hold_ms": app.config.Capture.Hold.Milliseconds(),
		})
	}

	return trigger.ScheduleConfig{
		StartAfter: app.config.Trigger.StartAfter,
		Duration:   app.config.Trigger.Duration,
		Gap:        gap,
		Cycles:     app.config.Capture.Cycles,
	}
}

// buildOutput wires the report sink and status display. Table output on the
// terminal shares one display, like the device screen. Other formats keep
// stdout machine readable and send status lines to stderr.
func (app *CaptureApp) buildOutput() (capture.ResultSink, StatusDisplay, func(), error) {
	formatter, err := output.NewFormatter(app.config.OutputFormat, app.config.Output.Precision)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create formatter: %w", err)
	}

	logSink := output.NewLogSink(app.logger)
	quiet := app.ctx.Quiet || app.config.Quiet

	if app.config.Output.File != "" {
		file, err := createOutputFile(app.config.Output.File)
		if err != nil {
			return nil, nil, nil, err
		}
		display := output.NewDisplay(app.ctx.Stderr, formatter, quiet)
		sink := output.MultiSink{output.NewWriterSink(file, formatter), logSink}
		closer := func() {
			if err := file.Close(); err != nil {
				app.logger.Error(err, "Failed to close output file", logging.Fields{
					"file": app.config.Output.File,
				})
			}
		}
		return sink, display, closer, nil
	}

	if strings.EqualFold(app.config.OutputFormat, "table") {
		display := output.NewDisplay(app.ctx.Stdout, formatter, quiet)
		return output.MultiSink{display, logSink}, display, func() {}, nil
	}

	display := output.NewDisplay(app.ctx.Stderr, formatter, quiet)
	sink := output.MultiSink{output.NewWriterSink(app.ctx.Stdout, formatter), logSink}
	return sink, display, func() {}, nil
}

// setupLogging configures the process wide logger from configuration
func setupLogging(ctx *Context, config *configs.Config) (logging.Logger, error) {
	level, err := zaplog.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}
	if ctx.Verbose || config.Verbose {
		level = logging.DebugLevel
	}

	if err := zaplog.Configure(zaplog.Options{
		Level:  level,
		Format: config.LogFormat,
		Out:    config.LogFile,
	}); err != nil {
		return nil, err
	}

	return logging.WithFields(logging.Fields{"app": "wavecap"}), nil
}

// mergeCaptureConfig applies CLI flags on top of the loaded configuration
func mergeCaptureConfig(config *configs.Config, ctx *Context) {
	if ctx.OutputFormat != "" {
		config.OutputFormat = ctx.OutputFormat
	}
	if ctx.OutputFile != "" {
		config.Output.File = ctx.OutputFile
	}
	if ctx.SourceType != "" {
		config.Source.Type = source.Type(ctx.SourceType)
	}
	if ctx.Cycles > 0 {
		config.Capture.Cycles = ctx.Cycles
	}
	if ctx.Realtime {
		config.Capture.Realtime = true
	}
	if ctx.Verbose {
		config.Verbose = true
	}
	if ctx.Quiet {
		config.Quiet = true
	}
}

func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, nil
}
