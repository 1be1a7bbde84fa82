package capture

import "time"

// DefaultDebounceWindow is the minimum spacing between two recognized crossings
const DefaultDebounceWindow = 10 * time.Millisecond

// PeriodDetector estimates the signal period from mid-level crossings.
//
// The threshold is the integer midpoint of the running min/max, so it moves
// while the capture is still discovering the signal's range. Any sample at or
// above the threshold counts as a crossing once the debounce window has
// passed since the previous one.
type PeriodDetector struct {
	debounce     time.Duration
	lastCrossing time.Time
	hasCrossing  bool
	period       time.Duration
	crossings    int
}

// NewPeriodDetector creates a detector. A non-positive debounce selects
// DefaultDebounceWindow.
func NewPeriodDetector(debounce time.Duration) *PeriodDetector {
	if debounce <= 0 {
		debounce = DefaultDebounceWindow
	}
	return &PeriodDetector{debounce: debounce}
}

// Observe feeds one sample taken at now
func (d *PeriodDetector) Observe(value Sample, now time.Time, runningMin, runningMax Sample) {
	threshold := (runningMax + runningMin) / 2
	if value < threshold {
		return
	}

	if !d.hasCrossing {
		d.lastCrossing = now
		d.hasCrossing = true
		d.crossings++
		return
	}

	if elapsed := now.Sub(d.lastCrossing); elapsed >= d.debounce {
		d.period = elapsed
		d.lastCrossing = now
		d.crossings++
	}
}

// Period returns the last debounced period, or zero if none was seen
func (d *PeriodDetector) Period() time.Duration {
	return d.period
}

// Crossings returns the number of recognized crossings
func (d *PeriodDetector) Crossings() int {
	return d.crossings
}

// Debounce returns the configured debounce window
func (d *PeriodDetector) Debounce() time.Duration {
	return d.debounce
}

// Reset clears the crossing state
func (d *PeriodDetector) Reset() {
	d.lastCrossing = time.Time{}
	d.hasCrossing = false
	d.period = 0
	d.crossings = 0
}
