package capture

import (
	"sync"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"gonum.org/v1/gonum/stat"
)

// State of a capture session
type State int

const (
	Idle State = iota
	Capturing
)

func (s State) String() string {
	if s == Capturing {
		return "capturing"
	}
	return "idle"
}

// SessionConfig holds the tunables of a Session
type SessionConfig struct {
	DebounceWindow  time.Duration
	InitialCapacity int
	MaxSamples      int
	Clock           Clock
	Logger          logging.Logger
}

// DefaultSessionConfig returns the settings of the reference hardware
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		DebounceWindow:  DefaultDebounceWindow,
		InitialCapacity: 256,
		MaxSamples:      DefaultMaxSamples,
		Clock:           SystemClock{},
	}
}

// Session owns one capture at a time and cycles Idle -> Capturing -> Idle.
// All derived state is reset on Start, so nothing leaks between cycles.
type Session struct {
	mu sync.Mutex

	state    State
	buffer   *SampleBuffer
	detector *PeriodDetector
	clock    Clock
	logger   logging.Logger

	runningMin Sample
	runningMax Sample
	firstAt    time.Time
	lastAt     time.Time

	result    AnalysisResult
	hasResult bool
}

// NewSession creates an idle session
func NewSession(config *SessionConfig) *Session {
	if config == nil {
		config = DefaultSessionConfig()
	}

	clock := config.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	fields := logging.Fields{"component": "capture_session"}
	logger := config.Logger
	if logger == nil {
		logger = logging.WithFields(fields)
	} else {
		logger = logger.WithFields(fields)
	}

	return &Session{
		state:      Idle,
		buffer:     NewSampleBuffer(config.InitialCapacity, config.MaxSamples),
		detector:   NewPeriodDetector(config.DebounceWindow),
		clock:      clock,
		logger:     logger,
		runningMin: MaxSample,
		runningMax: MinSample,
	}
}

// Start begins a capture. It returns false, and leaves the running capture
// untouched, when the session is already capturing.
func (s *Session) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Capturing {
		s.logger.Debug("Ignoring start while capturing", logging.Fields{
			"samples": s.buffer.Len(),
		})
		return false
	}

	s.buffer.Clear()
	s.detector.Reset()
	s.runningMin = MaxSample
	s.runningMax = MinSample
	s.firstAt = time.Time{}
	s.lastAt = time.Time{}
	s.result = AnalysisResult{}
	s.hasResult = false
	s.state = Capturing

	s.logger.Debug("Capture started", logging.Fields{
		"max_samples": s.buffer.Limit(),
		"debounce_ms": s.detector.Debounce().Milliseconds(),
	})
	return true
}

// OnSample records one sample. It is a no-op while idle. If the buffer is
// full the capture is aborted: the session returns to Idle without a result
// and the returned error matches ErrAllocationFailure.
func (s *Session) OnSample(value Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Capturing {
		return nil
	}

	now := s.clock.Now()
	if value > s.runningMax {
		s.runningMax = value
	}
	if value < s.runningMin {
		s.runningMin = value
	}
	s.detector.Observe(value, now, s.runningMin, s.runningMax)

	if err := s.buffer.Append(value); err != nil {
		captureErr := NewCaptureError(ErrCodeAllocation, "failed to store sample", err)
		s.logger.WithFields(logging.Fields{
			"samples": s.buffer.Len(),
			"limit":   s.buffer.Limit(),
		}).Error(captureErr, "Capture aborted")
		s.abortLocked()
		return captureErr
	}

	if s.firstAt.IsZero() {
		s.firstAt = now
	}
	s.lastAt = now
	return nil
}

// Stop ends the capture and analyses it. It returns false while idle.
func (s *Session) Stop() (AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Capturing {
		return AnalysisResult{}, false
	}

	samples := s.buffer.Samples()
	votes := Tally(samples, s.runningMin, s.runningMax)
	period := s.detector.Period()
	mean, stdDev := sampleStats(samples)

	s.result = AnalysisResult{
		Amplitude:   Amplitude(s.runningMin, s.runningMax),
		FrequencyHz: Frequency(period),
		Waveform:    votes.Winner(),
		SampleCount: len(samples),
		Min:         s.runningMin,
		Max:         s.runningMax,
		Period:      period,
		Mean:        mean,
		StdDev:      stdDev,
		Votes:       votes,
		CapturedAt:  s.clock.Now(),
		Duration:    s.lastAt.Sub(s.firstAt),
	}
	s.hasResult = true

	s.buffer.Release()
	s.state = Idle

	s.logger.Debug("Capture analysed", logging.Fields{
		"samples":      s.result.SampleCount,
		"amplitude":    s.result.Amplitude,
		"frequency_hz": s.result.FrequencyHz,
		"waveform":     s.result.Waveform.String(),
		"crossings":    s.detector.Crossings(),
	})
	return s.result, true
}

// Reset drops the stored result. It fails while a capture is running.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Capturing {
		return NewCaptureError(ErrCodeInvalidState, "cannot reset while capturing", nil)
	}

	s.result = AnalysisResult{}
	s.hasResult = false
	return nil
}

func (s *Session) abortLocked() {
	s.buffer.Release()
	s.detector.Reset()
	s.result = AnalysisResult{}
	s.hasResult = false
	s.state = Idle
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the analysis of the last finished capture
func (s *Session) Result() (AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.hasResult
}

// Len returns the number of samples in the running capture
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.Len()
}

// Min returns the running minimum
func (s *Session) Min() Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runningMin
}

// Max returns the running maximum
func (s *Session) Max() Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runningMax
}

// sampleStats returns the mean (DC offset) and sample standard deviation
func sampleStats(samples []Sample) (float64, float64) {
	switch len(samples) {
	case 0:
		return 0, 0
	case 1:
		return float64(samples[0]), 0
	}

	values := make([]float64, len(samples))
	for i, v := range samples {
		values[i] = float64(v)
	}
	return stat.MeanStdDev(values, nil)
}
