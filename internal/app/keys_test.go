package app

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/wavecap/pkg/capture"
)

func pollAll(trig capture.TriggerSource, n int) []capture.Event {
	events := make([]capture.Event, n)
	for i := range events {
		events[i] = trig.Poll()
	}
	return events
}

// TestKeyTriggerButtons checks each press produces exactly one edge
func TestKeyTriggerButtons(t *testing.T) {
	pad := newKeyPad()
	trig := newKeyTrigger(pad, false)

	pad.press(capture.EventStart)
	pad.press(capture.EventStop)
	assert.Equal(t, []capture.Event{
		capture.EventStart,
		capture.EventStop,
		capture.EventNone,
	}, pollAll(trig, 3))

	// A second press of the same key needs the release poll in between
	pad.press(capture.EventStart)
	pad.press(capture.EventStart)
	assert.Equal(t, []capture.Event{
		capture.EventStart,
		capture.EventNone,
		capture.EventStart,
		capture.EventNone,
	}, pollAll(trig, 4))
}

// TestKeyTriggerStopLevel checks the level-triggered stop variant
func TestKeyTriggerStopLevel(t *testing.T) {
	pad := newKeyPad()
	trig := newKeyTrigger(pad, true)

	pad.press(capture.EventStop)
	pad.press(capture.EventStop)
	assert.Equal(t, []capture.Event{
		capture.EventStop,
		capture.EventNone,
		capture.EventStop,
		capture.EventNone,
	}, pollAll(trig, 4))

	// Start wins when both keys are down on the same poll
	pad.press(capture.EventStart)
	pad.press(capture.EventStop)
	assert.Equal(t, capture.EventStart, trig.Poll())
}

// TestKeyTriggerDone checks the trigger finishes after input ends and every
// press was consumed
func TestKeyTriggerDone(t *testing.T) {
	pad := newKeyPad()
	trig := newKeyTrigger(pad, false)

	pad.press(capture.EventStart)
	assert.False(t, trig.Done())

	pad.close()
	assert.False(t, trig.Done(), "a press is still queued")

	pad.press(capture.EventStop)
	assert.Equal(t, capture.EventStart, trig.Poll())
	assert.False(t, trig.Done(), "key is still held")
	assert.Equal(t, capture.EventNone, trig.Poll())
	assert.True(t, trig.Done(), "presses after close are dropped")
}

// TestWatchKeys checks typed lines become presses until quit
func TestWatchKeys(t *testing.T) {
	pad := newKeyPad()
	in := strings.NewReader("s\n\n bogus \nSTOP\nq\ns\n")

	watchKeys(context.Background(), in, pad, logging.GetGlobalLogger())
	require.Eventually(t, func() bool {
		pad.mu.Lock()
		defer pad.mu.Unlock()
		return pad.closed
	}, time.Second, time.Millisecond)

	pad.mu.Lock()
	assert.Equal(t, 1, pad.presses[capture.EventStart], "the start after q is dropped")
	assert.Equal(t, 1, pad.presses[capture.EventStop])
	pad.mu.Unlock()

	trig := newKeyTrigger(pad, false)
	assert.Equal(t, []capture.Event{capture.EventStart, capture.EventStop}, pollAll(trig, 2))
	assert.Equal(t, capture.EventNone, trig.Poll())
	assert.True(t, trig.Done())
}

// TestWatchKeysEndOfInput checks the pad closes when input ends
func TestWatchKeysEndOfInput(t *testing.T) {
	pad := newKeyPad()
	watchKeys(context.Background(), strings.NewReader("x\n"), pad, logging.GetGlobalLogger())

	trig := newKeyTrigger(pad, false)
	require.Eventually(t, func() bool {
		return trig.Poll() == capture.EventStop
	}, time.Second, time.Millisecond)
	assert.Equal(t, capture.EventNone, trig.Poll())
	require.Eventually(t, trig.Done, time.Second, time.Millisecond)
}

// TestWatchKeysContextCancel checks cancelling closes the pad while input
// is still open
func TestWatchKeysContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	pad := newKeyPad()
	ctx, cancel := context.WithCancel(context.Background())
	watchKeys(ctx, pr, pad, logging.GetGlobalLogger())
	assert.False(t, pad.idle())

	cancel()
	require.Eventually(t, pad.idle, time.Second, time.Millisecond)
}
