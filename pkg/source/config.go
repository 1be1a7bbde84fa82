package source

import (
	"time"

	"github.com/RyanBlaney/wavecap/pkg/capture"
)

// Type selects a sample source implementation
type Type string

const (
	TypeSine     Type = "sine"
	TypeSquare   Type = "square"
	TypeTriangle Type = "triangle"
	TypeConstant Type = "constant"
	TypeNoise    Type = "noise"
	TypeFile     Type = "file"
)

// Config describes a sample source
type Config struct {
	Type        Type    `json:"type" yaml:"type" mapstructure:"type"`
	FrequencyHz float64 `json:"frequency_hz" yaml:"frequency_hz" mapstructure:"frequency_hz"`
	Amplitude   float64 `json:"amplitude" yaml:"amplitude" mapstructure:"amplitude"`
	Offset      float64 `json:"offset" yaml:"offset" mapstructure:"offset"`
	Noise       float64 `json:"noise" yaml:"noise" mapstructure:"noise"`
	Seed        uint64  `json:"seed" yaml:"seed" mapstructure:"seed"`
	File        string  `json:"file" yaml:"file" mapstructure:"file"`

	// Clock drives the generators. Defaults to the system clock.
	Clock capture.Clock `json:"-" yaml:"-" mapstructure:"-"`
}

// DefaultConfig returns a 5 Hz full-scale sine around mid-range
func DefaultConfig() *Config {
	return &Config{
		Type:        TypeSine,
		FrequencyHz: 5,
		Amplitude:   400,
		Offset:      512,
		Seed:        1,
		Clock:       capture.SystemClock{},
	}
}

func (c *Config) clock() capture.Clock {
	if c.Clock == nil {
		return capture.SystemClock{}
	}
	return c.Clock
}

func (c *Config) period() time.Duration {
	if c.FrequencyHz <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.FrequencyHz)
}
