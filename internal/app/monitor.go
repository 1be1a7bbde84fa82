package app

import (
	"context"
	"fmt"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/RyanBlaney/wavecap/pkg/capture"
	"github.com/RyanBlaney/wavecap/pkg/output"
)

// Sleeper waits between ticks of the monitor loop
type Sleeper interface {
	Sleep(d time.Duration)
}

// RealSleeper blocks the calling goroutine
type RealSleeper struct{}

func (RealSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}

// VirtualSleeper advances a manual clock instead of blocking, so a whole
// capture cycle runs as fast as the CPU allows.
type VirtualSleeper struct {
	Clock *capture.ManualClock
}

func (s VirtualSleeper) Sleep(d time.Duration) {
	s.Clock.Advance(d)
}

// StatusDisplay shows the one-line device status
type StatusDisplay interface {
	ShowStatus(status string)
}

type finisher interface {
	Done() bool
}

// MonitorConfig wires the parts of the capture loop together
type MonitorConfig struct {
	Session *capture.Session
	Source  capture.SampleSource
	Trigger capture.TriggerSource
	Sink    capture.ResultSink
	Display StatusDisplay
	Clock   capture.Clock
	Sleeper Sleeper
	Logger  logging.Logger

	// TickInterval is the time between polls
	TickInterval time.Duration
	// Hold keeps a finished result on display before the session resets.
	// Start events arriving during the hold are ignored.
	Hold time.Duration
	// MaxCycles ends the loop after this many captures; zero means the
	// trigger decides
	MaxCycles int
}

// Monitor is the capture device main loop: poll the trigger, sample while
// capturing, publish results and return to waiting after the hold time.
type Monitor struct {
	session *capture.Session
	source  capture.SampleSource
	trigger capture.TriggerSource
	sink    capture.ResultSink
	display StatusDisplay
	clock   capture.Clock
	sleeper Sleeper
	logger  logging.Logger

	tick      time.Duration
	hold      time.Duration
	maxCycles int

	cycle     int
	holding   bool
	holdUntil time.Time
	published int
}

// NewMonitor validates the wiring and creates a monitor
func NewMonitor(config MonitorConfig) (*Monitor, error) {
	if config.Session == nil || config.Source == nil || config.Trigger == nil || config.Sink == nil {
		return nil, fmt.Errorf("monitor requires a session, source, trigger and sink")
	}
	if config.TickInterval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive, got %v", config.TickInterval)
	}
	if config.MaxCycles < 0 {
		return nil, fmt.Errorf("max cycles cannot be negative, got %d", config.MaxCycles)
	}

	clock := config.Clock
	if clock == nil {
		clock = capture.SystemClock{}
	}
	sleeper := config.Sleeper
	if sleeper == nil {
		sleeper = RealSleeper{}
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Monitor{
		session:   config.Session,
		source:    config.Source,
		trigger:   config.Trigger,
		sink:      config.Sink,
		display:   config.Display,
		clock:     clock,
		sleeper:   sleeper,
		logger:    logger.WithFields(logging.Fields{"component": "monitor"}),
		tick:      config.TickInterval,
		hold:      config.Hold,
		maxCycles: config.MaxCycles,
	}, nil
}

// Run loops until the trigger reports it is done or ctx is cancelled.
// A cancelled context is a normal shutdown and returns nil.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Debug("Monitor started", logging.Fields{
		"tick_ms": m.tick.Milliseconds(),
		"hold_ms": m.hold.Milliseconds(),
	})
	m.showStatus(output.StatusWaiting)

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("Monitor cancelled", logging.Fields{
				"cycles":    m.cycle,
				"published": m.published,
			})
			return nil
		default:
		}

		if m.finished() {
			m.logger.Debug("Trigger exhausted", logging.Fields{
				"cycles":    m.cycle,
				"published": m.published,
			})
			return nil
		}

		if err := m.Step(); err != nil {
			return err
		}
		m.sleeper.Sleep(m.tick)
	}
}

// Step runs a single tick of the loop
func (m *Monitor) Step() error {
	now := m.clock.Now()

	if m.holding && !now.Before(m.holdUntil) {
		if err := m.session.Reset(); err != nil {
			m.logger.Error(err, "Failed to reset session")
			return nil
		}
		m.holding = false
		m.showStatus(output.StatusWaiting)
	}

	switch m.trigger.Poll() {
	case capture.EventStart:
		if m.holding {
			m.logger.Debug("Start ignored while holding result", logging.Fields{
				"cycle": m.cycle,
			})
			break
		}
		if m.session.Start() {
			m.cycle++
			m.showStatus(output.StatusCapturing)
		}
	case capture.EventStop:
		result, ok := m.session.Stop()
		if ok {
			m.holding = true
			m.holdUntil = now.Add(m.hold)
			m.showStatus(output.StatusCaptured)
			if err := m.publish(capture.NewResultReport(result, m.cycle, now)); err != nil {
				return err
			}
		}
	}

	if m.session.State() == capture.Capturing {
		if err := m.session.OnSample(m.source.Read()); err != nil {
			m.showStatus(output.StatusWaiting)
			if pubErr := m.publish(capture.NewAbortReport(err, m.cycle, now)); pubErr != nil {
				return pubErr
			}
		}
	}

	return nil
}

// Cycles returns the number of captures started
func (m *Monitor) Cycles() int {
	return m.cycle
}

// Published returns the number of reports handed to the sink
func (m *Monitor) Published() int {
	return m.published
}

func (m *Monitor) publish(report capture.Report) error {
	m.published++
	if err := m.sink.Publish(report); err != nil {
		m.logger.Error(err, "Failed to publish report", logging.Fields{
			"cycle":   report.Cycle,
			"aborted": report.Aborted,
		})
		return fmt.Errorf("failed to publish report: %w", err)
	}
	return nil
}

// finished reports whether the cycle limit is reached or a finite trigger
// is exhausted, and the last result has been held for its full display time
func (m *Monitor) finished() bool {
	if m.holding || m.session.State() != capture.Idle {
		return false
	}
	if m.maxCycles > 0 && m.cycle >= m.maxCycles {
		return true
	}
	f, ok := m.trigger.(finisher)
	return ok && f.Done()
}

func (m *Monitor) showStatus(status string) {
	if m.display != nil {
		m.display.ShowStatus(status)
	}
}
