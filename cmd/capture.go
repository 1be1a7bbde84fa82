package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/wavecap/internal/app"
)

var (
	// Capture command flags
	captureQuiet       bool
	captureLogFormat   string
	captureLogFile     string
	captureSource      string
	captureFrequency   float64
	captureAmplitude   float64
	captureOffset      float64
	captureNoise       float64
	captureSeed        uint64
	captureSamplesFile string
	captureTick        time.Duration
	captureDebounce    time.Duration
	captureMaxSamples  int
	captureHold        time.Duration
	captureCycles      int
	captureRealtime    bool
	captureTrigger     string
	captureStartAfter  time.Duration
	captureDuration    time.Duration
	captureGap         time.Duration
	captureStopLevel   bool
	captureOutputFile  string
	capturePrecision   int
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Run capture cycles against a signal source",
	Long: `Run one or more capture cycles and report amplitude, frequency and
waveform for each.

By default time is simulated: every tick advances a virtual clock, so a
two second capture finishes immediately. Use --realtime to sample on the
wall clock. With --trigger signal (realtime only) SIGUSR1 starts a capture
and SIGUSR2 stops it. With --trigger keys (realtime only) type "s" and
Enter to start, "x" and Enter to stop, "q" or end of input to quit.

Examples:
  # Capture two seconds of the default 5 Hz sine
  wavecap capture

  # Three 500 ms captures of a noisy 20 Hz square wave as JSON
  wavecap capture --source square --frequency 20 --noise 8 \
    --duration 500ms --cycles 3 -o json

  # Replay a recorded capture
  wavecap capture --source file --samples-file capture.yaml

  # Wait for signals: kill -USR1 <pid> to start, kill -USR2 <pid> to stop
  wavecap capture --realtime --trigger signal --cycles 0

  # Start and stop from the keyboard
  wavecap capture --realtime --trigger keys --cycles 0`,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)

	flags := captureCmd.Flags()
	flags.BoolVarP(&captureQuiet, "quiet", "q", false, "suppress status lines")
	flags.StringVar(&captureLogFormat, "log-format", "console", "log format (console, json)")
	flags.StringVar(&captureLogFile, "log-file", "", "write logs to file instead of stderr")

	// Source
	flags.StringVar(&captureSource, "source", "sine", "signal source (sine, square, triangle, constant, noise, file)")
	flags.Float64Var(&captureFrequency, "frequency", 5, "generated signal frequency in Hz")
	flags.Float64Var(&captureAmplitude, "amplitude", 400, "generated signal amplitude in ADC counts")
	flags.Float64Var(&captureOffset, "offset", 512, "generated signal DC offset in ADC counts")
	flags.Float64Var(&captureNoise, "noise", 0, "gaussian noise standard deviation in ADC counts")
	flags.Uint64Var(&captureSeed, "seed", 1, "noise generator seed")
	flags.StringVar(&captureSamplesFile, "samples-file", "", "YAML or JSON sample file for the file source")

	// Capture loop
	flags.DurationVar(&captureTick, "tick", 10*time.Millisecond, "time between samples")
	flags.DurationVar(&captureDebounce, "debounce", 10*time.Millisecond, "minimum time between counted crossings")
	flags.IntVar(&captureMaxSamples, "max-samples", 1<<16, "sample buffer limit per capture")
	flags.DurationVar(&captureHold, "hold", 4*time.Second, "time a result is held before returning to waiting")
	flags.IntVar(&captureCycles, "cycles", 1, "number of captures, 0 runs until interrupted")
	flags.BoolVar(&captureRealtime, "realtime", false, "sample on the wall clock instead of simulated time")

	// Trigger
	flags.StringVar(&captureTrigger, "trigger", "schedule", "trigger mode (schedule, signal, keys)")
	flags.DurationVar(&captureStartAfter, "start-after", 0, "delay before the first capture")
	flags.DurationVar(&captureDuration, "duration", 2*time.Second, "length of each scheduled capture")
	flags.DurationVar(&captureGap, "gap", 0, "pause between scheduled captures")
	flags.BoolVar(&captureStopLevel, "stop-level", false, "stop key is level-triggered in keys mode")

	// Output
	flags.StringVar(&captureOutputFile, "output-file", "", "write reports to file instead of stdout")
	flags.IntVar(&capturePrecision, "precision", 2, "decimal places in table output")
}

func runCapture(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	captureApp, err := app.NewCaptureApp(&app.Context{
		Verbose: verbose,
		Quiet:   captureQuiet,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture: %w", err)
	}

	return captureApp.Run(ctx)
}
