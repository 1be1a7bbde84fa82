package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/wavecap/configs"
)

// GenerateExampleConfig writes the default configuration as YAML
func GenerateExampleConfig(outputFile string, w io.Writer) error {
	data, err := yaml.Marshal(configs.GetDefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "✅ Example configuration written to: %s\n", outputFile)
	return nil
}

// ValidateConfigFile loads a configuration file on top of the defaults and
// validates the result
func ValidateConfigFile(configFile string, w io.Writer) (*configs.Config, error) {
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file does not exist: %s", configFile)
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config, err := configs.LoadConfigFrom(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := configs.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	fmt.Fprintf(w, "✅ Configuration is valid: %s\n", configFile)
	fmt.Fprintf(w, "   - Source: %s @ %.2f Hz\n", config.Source.Type, config.Source.FrequencyHz)
	fmt.Fprintf(w, "   - Trigger: %s, %d cycle(s)\n", config.Trigger.Mode, config.Capture.Cycles)

	return config, nil
}
