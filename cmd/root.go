package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "WAVECAP"

var (
	configFile   string
	verbose      bool
	logLevel     string
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wavecap",
	Short: "Capture and identify periodic analog signals",
	Long: `A capture tool for slowly varying periodic signals read from a 10-bit ADC.

Between a start and a stop event every tick reads one sample. When the
capture stops the tool reports:
- Amplitude, half the peak-to-peak range
- Frequency, from debounced mid-level crossings
- Waveform, voted sinusoidal, square or triangular

Sources can be synthesized (sine, square, triangle, constant, noise) or
replayed from a recorded sample file, in simulated or real time.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/wavecap/wavecap.yaml)")

	// Output and logging flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"output format (json, table, csv, yaml)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("output"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(configFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".config", "wavecap"))
		viper.AddConfigPath("/etc/wavecap")
		viper.AddConfigPath("./configs")
		viper.SetConfigName("wavecap")
		viper.SetConfigType("yaml")
	}

	// Environment variable support
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	} else if configFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", configFile, err)
		os.Exit(1)
	}
}

// initializeConfig initializes configuration after flags are parsed
func initializeConfig(cmd *cobra.Command) error {
	// Bind all flags to viper
	return bindFlags(cmd, viper.GetViper())
}

// bindFlags binds each command flag that has a viper key. Flags named in
// flagKeys map onto nested configuration keys such as capture.cycles.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}

		// Environment variable name
		envVarSuffix := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(key) {
			val := v.Get(key)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				lastErr = err
			}
		}

		// Bind the flag to viper
		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}

		// Bind to environment variable
		if err := v.BindEnv(key, envPrefix+"_"+envVarSuffix); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"verbose":      "verbose",
	"log-level":    "log_level",
	"output":       "output_format",
	"quiet":        "quiet",
	"log-format":   "log_format",
	"log-file":     "log_file",
	"source":       "source.type",
	"frequency":    "source.frequency_hz",
	"amplitude":    "source.amplitude",
	"offset":       "source.offset",
	"noise":        "source.noise",
	"seed":         "source.seed",
	"samples-file": "source.file",
	"tick":         "capture.tick_interval",
	"debounce":     "capture.debounce_window",
	"max-samples":  "capture.max_samples",
	"hold":         "capture.hold",
	"cycles":       "capture.cycles",
	"realtime":     "capture.realtime",
	"trigger":      "trigger.mode",
	"start-after":  "trigger.start_after",
	"duration":     "trigger.duration",
	"gap":          "trigger.gap",
	"stop-level":   "trigger.stop_level",
	"output-file":  "output.file",
	"precision":    "output.precision",
}

// GetConfig returns the current viper instance
func GetConfig() *viper.Viper {
	return viper.GetViper()
}
