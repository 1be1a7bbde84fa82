package capture

import (
	"fmt"
	"strings"
)

// WaveformKind is the shape guessed for a capture
type WaveformKind int

const (
	Unidentified WaveformKind = iota
	Sinusoidal
	Square
	Triangular
)

func (k WaveformKind) String() string {
	switch k {
	case Sinusoidal:
		return "sinusoidal"
	case Square:
		return "square"
	case Triangular:
		return "triangular"
	default:
		return "unidentified"
	}
}

// ParseWaveformKind is the inverse of WaveformKind.String
func ParseWaveformKind(s string) (WaveformKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sinusoidal":
		return Sinusoidal, nil
	case "square":
		return Square, nil
	case "triangular":
		return Triangular, nil
	case "unidentified":
		return Unidentified, nil
	}
	return Unidentified, fmt.Errorf("unknown waveform kind: %q", s)
}

func (k WaveformKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *WaveformKind) UnmarshalText(text []byte) error {
	parsed, err := ParseWaveformKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Votes counts how many sample triplets matched each shape test
type Votes struct {
	Sinusoidal int `json:"sinusoidal" yaml:"sinusoidal"`
	Square     int `json:"square" yaml:"square"`
	Triangular int `json:"triangular" yaml:"triangular"`
}

// Winner returns the kind with the strictly greatest count, or Unidentified
// on any tie for the top.
func (v Votes) Winner() WaveformKind {
	switch {
	case v.Sinusoidal > v.Square && v.Sinusoidal > v.Triangular:
		return Sinusoidal
	case v.Square > v.Sinusoidal && v.Square > v.Triangular:
		return Square
	case v.Triangular > v.Sinusoidal && v.Triangular > v.Square:
		return Triangular
	default:
		return Unidentified
	}
}

// Tally runs the three shape tests over every triplet of samples. The tests
// are tried in the order sine, square, triangle and only the first match
// counts for a given triplet.
func Tally(samples []Sample, runningMin, runningMax Sample) Votes {
	var votes Votes

	span := runningMax - runningMin
	slopeLimit := span / 10
	high := runningMax - span/4
	low := runningMin + span/4

	for i := 2; i < len(samples); i++ {
		diff1 := samples[i] - samples[i-1]
		diff2 := samples[i-1] - samples[i-2]

		switch {
		case isSineStep(diff1, diff2, slopeLimit):
			votes.Sinusoidal++
		case isSquareStep(samples[i], samples[i-1], high, low):
			votes.Square++
		case isTriangleStep(diff1, diff2):
			votes.Triangular++
		}
	}

	return votes
}

// Classify returns the dominant waveform shape of samples
func Classify(samples []Sample, runningMin, runningMax Sample) WaveformKind {
	return Tally(samples, runningMin, runningMax).Winner()
}

// Small slope that changes direction.
func isSineStep(diff1, diff2, limit int) bool {
	return abs(diff1) < limit && abs(diff2) < limit && diff1*diff2 < 0
}

// Jump between the top and bottom quarter of the range in one step. A flat
// signal has overlapping bands, so the level must actually change.
func isSquareStep(current, previous, high, low int) bool {
	if current == previous {
		return false
	}
	return (current >= high && previous <= low) || (current <= low && previous >= high)
}

// Two steps in the same direction.
func isTriangleStep(diff1, diff2 int) bool {
	return (diff1 > 0 && diff2 > 0) || (diff1 < 0 && diff2 < 0)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
