package configs

import (
	"time"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/wavecap/pkg/capture"
	"github.com/RyanBlaney/wavecap/pkg/source"
)

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	defaults := map[string]any{
		// Application defaults
		"verbose":       false,
		"quiet":         false,
		"log_level":     "info",
		"log_format":    "console",
		"log_file":      "",
		"output_format": "table",

		// Capture defaults match the reference hardware: one ADC read
		// every 10 ms, crossings debounced by 10 ms
		"capture.tick_interval":    10 * time.Millisecond,
		"capture.debounce_window":  capture.DefaultDebounceWindow,
		"capture.max_samples":      capture.DefaultMaxSamples,
		"capture.initial_capacity": 256,
		"capture.hold":             4 * time.Second,
		"capture.cycles":           1,
		"capture.realtime":         false,

		// Source defaults
		"source.type":         string(source.TypeSine),
		"source.frequency_hz": 5.0,
		"source.amplitude":    400.0,
		"source.offset":       512.0,
		"source.noise":        0.0,
		"source.seed":         1,
		"source.file":         "",

		// Trigger defaults
		"trigger.mode":        TriggerModeSchedule,
		"trigger.start_after": time.Duration(0),
		"trigger.duration":    2 * time.Second,
		"trigger.gap":         time.Duration(0),
		"trigger.stop_level":  false,

		// Output defaults
		"output.file":      "",
		"output.precision": 2,
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "console",
		OutputFormat: "table",
		Capture:      GetDefaultCaptureConfig(),
		Source:       *source.DefaultConfig(),
		Trigger:      GetDefaultTriggerConfig(),
		Output: OutputConfig{
			Precision: 2,
		},
	}
}

// GetDefaultCaptureConfig returns the default capture settings
func GetDefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		TickInterval:    10 * time.Millisecond,
		DebounceWindow:  capture.DefaultDebounceWindow,
		MaxSamples:      capture.DefaultMaxSamples,
		InitialCapacity: 256,
		Hold:            4 * time.Second,
		Cycles:          1,
	}
}

// GetDefaultTriggerConfig returns a single two second capture
func GetDefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		Mode:     TriggerModeSchedule,
		Duration: 2 * time.Second,
	}
}

// FastCaptureConfig returns settings for short oversampled captures
func FastCaptureConfig() CaptureConfig {
	cfg := GetDefaultCaptureConfig()
	cfg.TickInterval = time.Millisecond
	cfg.Hold = 0
	return cfg
}
