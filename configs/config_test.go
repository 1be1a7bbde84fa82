package configs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/wavecap/pkg/capture"
	"github.com/RyanBlaney/wavecap/pkg/source"
)

// TestLoadConfigDefaults checks an empty viper yields the default configuration
func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfigFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "table", config.OutputFormat)
	assert.Equal(t, GetDefaultCaptureConfig(), config.Capture)
	assert.Equal(t, GetDefaultTriggerConfig(), config.Trigger)
	assert.Equal(t, 2, config.Output.Precision)

	assert.Equal(t, source.TypeSine, config.Source.Type)
	assert.Equal(t, 5.0, config.Source.FrequencyHz)
	assert.Equal(t, 400.0, config.Source.Amplitude)
	assert.Equal(t, 512.0, config.Source.Offset)
	assert.Equal(t, uint64(1), config.Source.Seed)

	require.NoError(t, ValidateConfig(config))
}

// TestLoadConfigFromFile checks YAML values override defaults
func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wavecap.yaml")
	content := `
log_level: debug
output_format: json
capture:
  tick_interval: 1ms
  debounce_window: 5ms
  max_samples: 2048
  cycles: 3
source:
  type: square
  frequency_hz: 25
  noise: 4.5
trigger:
  duration: 500ms
  gap: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	config, err := LoadConfigFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "json", config.OutputFormat)
	assert.Equal(t, time.Millisecond, config.Capture.TickInterval)
	assert.Equal(t, 5*time.Millisecond, config.Capture.DebounceWindow)
	assert.Equal(t, 2048, config.Capture.MaxSamples)
	assert.Equal(t, 3, config.Capture.Cycles)
	assert.Equal(t, 4*time.Second, config.Capture.Hold, "unset keys keep their default")
	assert.Equal(t, source.TypeSquare, config.Source.Type)
	assert.Equal(t, 25.0, config.Source.FrequencyHz)
	assert.Equal(t, 4.5, config.Source.Noise)
	assert.Equal(t, 500*time.Millisecond, config.Trigger.Duration)
	assert.Equal(t, time.Second, config.Trigger.Gap)

	require.NoError(t, ValidateConfig(config))
}

// TestValidateConfig checks each rejected setting
func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero tick", func(c *Config) { c.Capture.TickInterval = 0 }},
		{"negative debounce", func(c *Config) { c.Capture.DebounceWindow = -time.Millisecond }},
		{"zero max samples", func(c *Config) { c.Capture.MaxSamples = 0 }},
		{"negative capacity", func(c *Config) { c.Capture.InitialCapacity = -1 }},
		{"negative cycles", func(c *Config) { c.Capture.Cycles = -1 }},
		{"negative hold", func(c *Config) { c.Capture.Hold = -time.Second }},
		{"zero duration", func(c *Config) { c.Trigger.Duration = 0 }},
		{"negative gap", func(c *Config) { c.Trigger.Gap = -time.Second }},
		{"unknown trigger", func(c *Config) { c.Trigger.Mode = "gpio" }},
		{"signal without realtime", func(c *Config) { c.Trigger.Mode = TriggerModeSignal }},
		{"keys without realtime", func(c *Config) { c.Trigger.Mode = TriggerModeKeys }},
		{"file without path", func(c *Config) { c.Source.Type = source.TypeFile }},
		{"negative frequency", func(c *Config) { c.Source.FrequencyHz = -1 }},
		{"negative noise", func(c *Config) { c.Source.Noise = -1 }},
		{"unknown format", func(c *Config) { c.OutputFormat = "xml" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := GetDefaultConfig()
			require.NoError(t, ValidateConfig(config))

			tt.modify(config)
			err := ValidateConfig(config)
			require.Error(t, err)

			var captureErr *capture.CaptureError
			require.True(t, errors.As(err, &captureErr))
			assert.Equal(t, capture.ErrCodeInvalidConfig, captureErr.Code)
		})
	}
}

// TestValidateInteractiveTriggers checks signal and keys triggers are
// accepted in realtime mode
func TestValidateInteractiveTriggers(t *testing.T) {
	for _, mode := range []string{TriggerModeSignal, TriggerModeKeys} {
		config := GetDefaultConfig()
		config.Trigger.Mode = mode
		config.Trigger.StopLevel = true
		config.Capture.Realtime = true
		assert.NoError(t, ValidateConfig(config), mode)
	}
}

// TestSessionConfig checks capture settings are carried to the session
func TestSessionConfig(t *testing.T) {
	config := GetDefaultConfig()
	config.Capture.MaxSamples = 99
	clock := capture.NewManualClock(time.Unix(0, 0))

	sessionConfig := config.SessionConfig(clock, nil)
	assert.Equal(t, capture.DefaultDebounceWindow, sessionConfig.DebounceWindow)
	assert.Equal(t, 256, sessionConfig.InitialCapacity)
	assert.Equal(t, 99, sessionConfig.MaxSamples)
	assert.Same(t, clock, sessionConfig.Clock)
}

func TestFastCaptureConfig(t *testing.T) {
	fast := FastCaptureConfig()
	assert.Equal(t, time.Millisecond, fast.TickInterval)
	assert.Equal(t, time.Duration(0), fast.Hold)
	assert.Equal(t, capture.DefaultMaxSamples, fast.MaxSamples)
}
