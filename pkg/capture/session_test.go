package capture

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// SessionTestSuite drives a Session with a manual clock
type SessionTestSuite struct {
	suite.Suite
	clock   *ManualClock
	session *Session
}

func (suite *SessionTestSuite) SetupTest() {
	suite.clock = NewManualClock(epoch)
	suite.session = NewSession(&SessionConfig{
		DebounceWindow:  10 * time.Millisecond,
		InitialCapacity: 4,
		MaxSamples:      1024,
		Clock:           suite.clock,
	})
}

// feed sends samples spaced by tick, advancing the clock after each one
func (suite *SessionTestSuite) feed(tick time.Duration, samples ...Sample) {
	for _, v := range samples {
		suite.Require().NoError(suite.session.OnSample(v))
		suite.clock.Advance(tick)
	}
}

func (suite *SessionTestSuite) TestInitialState() {
	suite.Equal(Idle, suite.session.State())
	suite.Equal(MaxSample, suite.session.Min())
	suite.Equal(MinSample, suite.session.Max())

	_, ok := suite.session.Result()
	suite.False(ok)
}

func (suite *SessionTestSuite) TestIdleOperationsAreNoops() {
	suite.NoError(suite.session.OnSample(700))
	suite.Equal(0, suite.session.Len())
	suite.Equal(MinSample, suite.session.Max())

	result, ok := suite.session.Stop()
	suite.False(ok)
	suite.Equal(AnalysisResult{}, result)
	suite.Equal(Idle, suite.session.State())
}

func (suite *SessionTestSuite) TestStartWhileCapturingKeepsCapture() {
	suite.True(suite.session.Start())
	suite.feed(10*time.Millisecond, 300, 700, 500)

	suite.False(suite.session.Start())
	suite.Equal(Capturing, suite.session.State())
	suite.Equal(3, suite.session.Len())
	suite.Equal(300, suite.session.Min())
	suite.Equal(700, suite.session.Max())
}

func (suite *SessionTestSuite) TestBufferLengthTracksSamples() {
	suite.session.Start()
	for i := 0; i < 100; i++ {
		suite.feed(time.Millisecond, Sample(i))
		suite.Equal(i+1, suite.session.Len())
	}
}

// Scenario: a flat signal shorter than the debounce window
func (suite *SessionTestSuite) TestConstantSignal() {
	suite.session.Start()
	suite.feed(time.Millisecond, 512, 512, 512, 512, 512)

	result, ok := suite.session.Stop()
	suite.Require().True(ok)
	suite.Equal(0, result.Amplitude)
	suite.Equal(0.0, result.FrequencyHz)
	suite.False(result.HasFrequency())
	suite.Equal(Unidentified, result.Waveform)
	suite.Equal(Votes{}, result.Votes)
	suite.InDelta(512.0, result.Mean, 1e-9)
	suite.InDelta(0.0, result.StdDev, 1e-9)
}

// A flat signal sits on the threshold, so at the 10 ms tick every sample is
// a debounced crossing and the tick rate shows up as the frequency
func (suite *SessionTestSuite) TestConstantSignalAtTickRate() {
	suite.session.Start()
	suite.feed(10*time.Millisecond, constantSignal(50, 512)...)

	result, ok := suite.session.Stop()
	suite.Require().True(ok)
	suite.Equal(0, result.Amplitude)
	suite.Equal(Unidentified, result.Waveform)
	suite.Equal(10*time.Millisecond, result.Period)
	suite.InDelta(100.0, result.FrequencyHz, 1e-9)
}

// Scenario: full-range square wave sampled every 10 ms
func (suite *SessionTestSuite) TestSquareSignal() {
	suite.session.Start()
	start := suite.clock.Now()
	suite.feed(10*time.Millisecond, alternatingSignal(20, 100, 900)...)

	result, ok := suite.session.Stop()
	suite.Require().True(ok)
	suite.Equal(Square, result.Waveform)
	suite.Equal(400, result.Amplitude)
	suite.Equal(20*time.Millisecond, result.Period)
	suite.InDelta(50.0, result.FrequencyHz, 1e-9)
	suite.Equal(20, result.SampleCount)
	suite.Equal(100, result.Min)
	suite.Equal(900, result.Max)
	suite.InDelta(500.0, result.Mean, 1e-9)
	suite.Equal(190*time.Millisecond, result.Duration)
	suite.Equal(start.Add(200*time.Millisecond), result.CapturedAt)
}

// Scenario: oversampled sine with sample-level dither
func (suite *SessionTestSuite) TestSineSignal() {
	suite.session.Start()
	suite.feed(time.Millisecond, ditheredSine(1000)...)

	result, ok := suite.session.Stop()
	suite.Require().True(ok)
	suite.Equal(Sinusoidal, result.Waveform)
	suite.InDelta(400, result.Amplitude, 5)
	suite.True(result.HasFrequency())
}

// Scenario: monotonic ramp
func (suite *SessionTestSuite) TestRampSignal() {
	suite.session.Start()
	suite.feed(10*time.Millisecond, rampSignal(0, 1000, 100)...)

	result, ok := suite.session.Stop()
	suite.Require().True(ok)
	suite.Equal(Triangular, result.Waveform)
	suite.Equal(500, result.Amplitude)
}

func (suite *SessionTestSuite) TestEmptyCapture() {
	suite.session.Start()
	result, ok := suite.session.Stop()
	suite.Require().True(ok)

	suite.Equal(0, result.SampleCount)
	suite.Equal(-511, result.Amplitude)
	suite.Equal(0.0, result.FrequencyHz)
	suite.Equal(Unidentified, result.Waveform)
	suite.Equal(time.Duration(0), result.Duration)
}

func (suite *SessionTestSuite) TestShortCapture() {
	suite.session.Start()
	suite.feed(10*time.Millisecond, 100, 900)

	result, ok := suite.session.Stop()
	suite.Require().True(ok)
	suite.Equal(Unidentified, result.Waveform)
	suite.Equal(400, result.Amplitude)
	suite.InDelta(100.0, result.FrequencyHz, 1e-9)
}

func (suite *SessionTestSuite) TestStopReleasesBuffer() {
	suite.session.Start()
	suite.feed(time.Millisecond, 1, 2, 3, 4, 5, 6)
	suite.session.Stop()

	suite.Equal(Idle, suite.session.State())
	suite.Equal(0, suite.session.Len())
	suite.Equal(0, suite.session.buffer.Cap())
}

func (suite *SessionTestSuite) TestStartResetsDerivedState() {
	suite.session.Start()
	suite.feed(10*time.Millisecond, alternatingSignal(10, 0, 1000)...)
	first, ok := suite.session.Stop()
	suite.Require().True(ok)
	suite.Equal(500, first.Amplitude)

	suite.True(suite.session.Start())
	_, ok = suite.session.Result()
	suite.False(ok, "previous result is cleared on start")
	suite.Equal(MaxSample, suite.session.Min())
	suite.Equal(MinSample, suite.session.Max())

	suite.feed(time.Millisecond, 600, 601, 602)
	second, ok := suite.session.Stop()
	suite.Require().True(ok)
	suite.Equal(1, second.Amplitude)
	suite.Equal(0.0, second.FrequencyHz, "no crossing pair inside the debounce window")
	suite.Equal(3, second.SampleCount)
}

func (suite *SessionTestSuite) TestReset() {
	suite.session.Start()
	suite.feed(10*time.Millisecond, 100, 900, 100)

	err := suite.session.Reset()
	suite.Require().Error(err)
	suite.True(errors.Is(err, ErrCaptureInProgress))
	suite.Equal(Capturing, suite.session.State())
	suite.Equal(3, suite.session.Len())

	suite.session.Stop()
	_, ok := suite.session.Result()
	suite.True(ok)

	suite.NoError(suite.session.Reset())
	_, ok = suite.session.Result()
	suite.False(ok)
	suite.Equal(Idle, suite.session.State())
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

// TestSessionAllocationFailure checks a full buffer aborts the capture
func TestSessionAllocationFailure(t *testing.T) {
	clock := NewManualClock(epoch)
	session := NewSession(&SessionConfig{
		InitialCapacity: 2,
		MaxSamples:      4,
		Clock:           clock,
	})

	require.True(t, session.Start())
	for i := 0; i < 4; i++ {
		require.NoError(t, session.OnSample(100*i))
		clock.Advance(10 * time.Millisecond)
	}

	err := session.OnSample(900)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAllocationFailure))

	var captureErr *CaptureError
	require.True(t, errors.As(err, &captureErr))
	assert.Equal(t, ErrCodeAllocation, captureErr.Code)

	assert.Equal(t, Idle, session.State())
	assert.Equal(t, 0, session.Len())

	_, ok := session.Result()
	assert.False(t, ok, "aborted capture has no result")

	_, ok = session.Stop()
	assert.False(t, ok, "stop after abort is a no-op")

	// The session is usable again
	require.True(t, session.Start())
	require.NoError(t, session.OnSample(512))
}

// TestNewSessionDefaults checks a nil config selects the reference settings
func TestNewSessionDefaults(t *testing.T) {
	session := NewSession(nil)
	assert.Equal(t, DefaultDebounceWindow, session.detector.Debounce())
	assert.Equal(t, DefaultMaxSamples, session.buffer.Limit())
	assert.IsType(t, SystemClock{}, session.clock)
}
