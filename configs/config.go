package configs

import (
	"fmt"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/wavecap/pkg/capture"
	"github.com/RyanBlaney/wavecap/pkg/output"
	"github.com/RyanBlaney/wavecap/pkg/source"
	"github.com/RyanBlaney/wavecap/pkg/zaplog"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose"`
	Quiet        bool   `mapstructure:"quiet" yaml:"quiet"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat    string `mapstructure:"log_format" yaml:"log_format"`
	LogFile      string `mapstructure:"log_file" yaml:"log_file"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`

	// Capture loop configuration
	Capture CaptureConfig `mapstructure:"capture" yaml:"capture"`

	// Signal source configuration
	Source source.Config `mapstructure:"source" yaml:"source"`

	// Start/stop trigger configuration
	Trigger TriggerConfig `mapstructure:"trigger" yaml:"trigger"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// CaptureConfig contains capture session and poll loop settings
type CaptureConfig struct {
	TickInterval    time.Duration `mapstructure:"tick_interval" yaml:"tick_interval"`
	DebounceWindow  time.Duration `mapstructure:"debounce_window" yaml:"debounce_window"`
	MaxSamples      int           `mapstructure:"max_samples" yaml:"max_samples"`
	InitialCapacity int           `mapstructure:"initial_capacity" yaml:"initial_capacity"`
	Hold            time.Duration `mapstructure:"hold" yaml:"hold"`
	Cycles          int           `mapstructure:"cycles" yaml:"cycles"`
	Realtime        bool          `mapstructure:"realtime" yaml:"realtime"`
}

// TriggerConfig selects how captures are started and stopped
type TriggerConfig struct {
	// Mode is "schedule", "signal" (SIGUSR1 starts, SIGUSR2 stops) or
	// "keys" (start and stop keys read from stdin)
	Mode       string        `mapstructure:"mode" yaml:"mode"`
	StartAfter time.Duration `mapstructure:"start_after" yaml:"start_after"`
	Duration   time.Duration `mapstructure:"duration" yaml:"duration"`
	Gap        time.Duration `mapstructure:"gap" yaml:"gap"`
	// StopLevel makes the stop key level-triggered in keys mode
	StopLevel bool `mapstructure:"stop_level" yaml:"stop_level"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	File      string `mapstructure:"file" yaml:"file"`
	Precision int    `mapstructure:"precision" yaml:"precision"`
}

// Trigger modes
const (
	TriggerModeSchedule = "schedule"
	TriggerModeSignal   = "signal"
	TriggerModeKeys     = "keys"
)

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom loads configuration from v, filling unset keys with defaults
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// SessionConfig converts the capture settings for capture.NewSession
func (c *Config) SessionConfig(clock capture.Clock, logger logging.Logger) *capture.SessionConfig {
	return &capture.SessionConfig{
		DebounceWindow:  c.Capture.DebounceWindow,
		InitialCapacity: c.Capture.InitialCapacity,
		MaxSamples:      c.Capture.MaxSamples,
		Clock:           clock,
		Logger:          logger,
	}
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Capture.TickInterval <= 0 {
		return invalid("capture tick interval must be positive")
	}

	if config.Capture.DebounceWindow < 0 {
		return invalid("debounce window cannot be negative")
	}

	if config.Capture.MaxSamples <= 0 {
		return invalid("max samples must be positive")
	}

	if config.Capture.InitialCapacity < 0 {
		return invalid("initial capacity cannot be negative")
	}

	if config.Capture.Cycles < 0 {
		return invalid("cycles cannot be negative")
	}

	if config.Capture.Hold < 0 {
		return invalid("hold time cannot be negative")
	}

	switch config.Trigger.Mode {
	case TriggerModeSchedule:
		if config.Trigger.Duration <= 0 {
			return invalid("trigger duration must be positive")
		}
		if config.Trigger.StartAfter < 0 || config.Trigger.Gap < 0 {
			return invalid("trigger delays cannot be negative")
		}
	case TriggerModeSignal, TriggerModeKeys:
		if !config.Capture.Realtime {
			return invalid(fmt.Sprintf("%s trigger requires realtime capture", config.Trigger.Mode))
		}
	default:
		return invalid(fmt.Sprintf("unknown trigger mode: %s", config.Trigger.Mode))
	}

	if config.Source.Type == source.TypeFile && config.Source.File == "" {
		return invalid("file source requires source.file")
	}

	if config.Source.FrequencyHz < 0 {
		return invalid("source frequency cannot be negative")
	}

	if config.Source.Noise < 0 {
		return invalid("source noise cannot be negative")
	}

	if _, err := output.NewFormatter(config.OutputFormat, config.Output.Precision); err != nil {
		return invalid(err.Error())
	}

	if _, err := zaplog.ParseLevel(config.LogLevel); err != nil {
		return invalid(err.Error())
	}

	return nil
}

func invalid(message string) error {
	return capture.NewCaptureError(capture.ErrCodeInvalidConfig, message, nil)
}
