package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

// TestPeriodDetectorFirstCrossing checks that a single crossing yields no period
func TestPeriodDetectorFirstCrossing(t *testing.T) {
	d := NewPeriodDetector(0)
	assert.Equal(t, DefaultDebounceWindow, d.Debounce())

	d.Observe(600, at(0), 0, 1000)
	assert.Equal(t, 1, d.Crossings())
	assert.Equal(t, time.Duration(0), d.Period())
}

// TestPeriodDetectorDebounce checks crossings inside the window are ignored
func TestPeriodDetectorDebounce(t *testing.T) {
	d := NewPeriodDetector(10 * time.Millisecond)

	d.Observe(800, at(0), 0, 1000)
	d.Observe(800, at(5), 0, 1000)
	d.Observe(800, at(9), 0, 1000)
	assert.Equal(t, time.Duration(0), d.Period())
	assert.Equal(t, 1, d.Crossings())

	d.Observe(800, at(10), 0, 1000)
	assert.Equal(t, 10*time.Millisecond, d.Period())

	d.Observe(800, at(35), 0, 1000)
	assert.Equal(t, 25*time.Millisecond, d.Period())
	assert.Equal(t, 3, d.Crossings())
}

// TestPeriodDetectorBelowThreshold checks low samples never touch the state
func TestPeriodDetectorBelowThreshold(t *testing.T) {
	d := NewPeriodDetector(10 * time.Millisecond)

	d.Observe(100, at(0), 0, 1000)
	d.Observe(499, at(20), 0, 1000)
	assert.Equal(t, 0, d.Crossings())

	d.Observe(500, at(40), 0, 1000)
	d.Observe(200, at(60), 0, 1000)
	d.Observe(900, at(80), 0, 1000)
	assert.Equal(t, 40*time.Millisecond, d.Period())
}

// TestPeriodDetectorProvisionalThreshold checks the threshold follows the running range
func TestPeriodDetectorProvisionalThreshold(t *testing.T) {
	d := NewPeriodDetector(10 * time.Millisecond)

	// With min == max == value the first sample is always a crossing
	d.Observe(300, at(0), 300, 300)
	assert.Equal(t, 1, d.Crossings())

	// 400 is above the later midpoint of 300..400 but below 300..800
	d.Observe(400, at(20), 300, 800)
	assert.Equal(t, time.Duration(0), d.Period())
}

// TestPeriodDetectorReset checks the state is cleared
func TestPeriodDetectorReset(t *testing.T) {
	d := NewPeriodDetector(10 * time.Millisecond)
	d.Observe(900, at(0), 0, 1000)
	d.Observe(900, at(30), 0, 1000)
	d.Reset()

	assert.Equal(t, time.Duration(0), d.Period())
	assert.Equal(t, 0, d.Crossings())

	d.Observe(900, at(31), 0, 1000)
	assert.Equal(t, time.Duration(0), d.Period(), "first crossing after reset has no predecessor")
}
