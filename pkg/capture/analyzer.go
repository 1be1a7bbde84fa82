package capture

import "time"

// Amplitude returns the integer half-range of the signal. No offset
// correction is applied.
func Amplitude(runningMin, runningMax Sample) int {
	return (runningMax - runningMin) / 2
}

// Frequency converts a period into Hz. A zero period means no period was
// detected and yields 0.
func Frequency(period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	millis := float64(period) / float64(time.Millisecond)
	return 1000.0 / millis
}
