package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/wavecap/configs"
	"github.com/RyanBlaney/wavecap/internal/app"
)

// Terminal colors
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorGreen = "\033[32m"
)

var (
	configTestValidate string
	configTestExample  string
)

// configTestCmd represents the config test command
var configTestCmd = &cobra.Command{
	Use:   "config-test",
	Short: "Test and display all configuration values",
	Long: `Test configuration loading and display all values to verify proper parsing.

This command loads the configuration and displays all values in a structured format
to help verify that your YAML configuration is being parsed correctly.

Examples:
  # Test with default config file
  wavecap config-test

  # Test with specific config file
  wavecap --config /path/to/config.yaml config-test

  # Validate a file without loading it as the active configuration
  wavecap config-test --validate ./configs/wavecap.yaml

  # Write the defaults as a starting point
  wavecap config-test --write-example ./configs/wavecap.yaml`,
	RunE: runConfigTest,
}

func init() {
	rootCmd.AddCommand(configTestCmd)

	configTestCmd.Flags().StringVar(&configTestValidate, "validate", "", "validate the given configuration file")
	configTestCmd.Flags().StringVar(&configTestExample, "write-example", "", "write an example configuration file")
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if configTestExample != "" {
		return app.GenerateExampleConfig(configTestExample, out)
	}
	if configTestValidate != "" {
		_, err := app.ValidateConfigFile(configTestValidate, out)
		return err
	}

	fmt.Fprintln(out, "WAVECAP CONFIGURATION TEST")
	fmt.Fprintln(out, strings.Repeat("=", 80))

	// Load configuration
	config, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	p := &printer{out: cmd.OutOrStdout()}

	p.section("APPLICATION SETTINGS")
	p.keyValue("Verbose", fmt.Sprintf("%t", config.Verbose))
	p.keyValue("Quiet", fmt.Sprintf("%t", config.Quiet))
	p.keyValue("Log Level", config.LogLevel)
	p.keyValue("Log Format", config.LogFormat)
	p.keyValue("Log File", orNone(config.LogFile))
	p.keyValue("Output Format", config.OutputFormat)

	p.section("CAPTURE CONFIGURATION")
	p.keyValue("Tick Interval", config.Capture.TickInterval.String())
	p.keyValue("Debounce Window", config.Capture.DebounceWindow.String())
	p.keyValue("Max Samples", fmt.Sprintf("%d", config.Capture.MaxSamples))
	p.keyValue("Initial Capacity", fmt.Sprintf("%d", config.Capture.InitialCapacity))
	p.keyValue("Hold", config.Capture.Hold.String())
	p.keyValue("Cycles", fmt.Sprintf("%d", config.Capture.Cycles))
	p.keyValue("Realtime", fmt.Sprintf("%t", config.Capture.Realtime))

	p.section("SOURCE CONFIGURATION")
	p.keyValue("Type", string(config.Source.Type))
	p.keyValue("Frequency", fmt.Sprintf("%.3f Hz", config.Source.FrequencyHz))
	p.keyValue("Amplitude", fmt.Sprintf("%.1f", config.Source.Amplitude))
	p.keyValue("Offset", fmt.Sprintf("%.1f", config.Source.Offset))
	p.keyValue("Noise", fmt.Sprintf("%.2f", config.Source.Noise))
	p.keyValue("Seed", fmt.Sprintf("%d", config.Source.Seed))
	p.keyValue("File", orNone(config.Source.File))

	p.section("TRIGGER CONFIGURATION")
	p.keyValue("Mode", config.Trigger.Mode)
	p.keyValue("Start After", config.Trigger.StartAfter.String())
	p.keyValue("Duration", config.Trigger.Duration.String())
	p.keyValue("Gap", config.Trigger.Gap.String())
	p.keyValue("Stop Level", fmt.Sprintf("%t", config.Trigger.StopLevel))

	p.section("OUTPUT CONFIGURATION")
	p.keyValue("File", orNone(config.Output.File))
	p.keyValue("Precision", fmt.Sprintf("%d", config.Output.Precision))

	fmt.Fprintln(out)
	if err := configs.ValidateConfig(config); err != nil {
		fmt.Fprintln(out, ColorRed+strings.Repeat("-", 80))
		fmt.Fprintf(out, "CONFIGURATION INVALID: %v\n", err)
		fmt.Fprintln(out, strings.Repeat("=", 80)+ColorReset)
		return err
	}

	fmt.Fprintln(out, ColorGreen+strings.Repeat("-", 80))
	fmt.Fprintln(out, "CONFIGURATION TEST COMPLETED SUCCESSFULLY")
	fmt.Fprintf(out, "Config file: %s\n", orNone(viper.ConfigFileUsed()))
	fmt.Fprintln(out, strings.Repeat("=", 80)+ColorReset)

	return nil
}
