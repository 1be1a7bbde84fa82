package output

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/RyanBlaney/wavecap/pkg/capture"
)

// WriterSink formats reports onto a writer
type WriterSink struct {
	mu        sync.Mutex
	w         io.Writer
	formatter Formatter
}

// NewWriterSink creates a sink writing formatted reports to w
func NewWriterSink(w io.Writer, formatter Formatter) *WriterSink {
	return &WriterSink{w: w, formatter: formatter}
}

func (s *WriterSink) Publish(report capture.Report) error {
	data, err := s.formatter.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// LogSink records every report on a logger
type LogSink struct {
	logger logging.Logger
}

// NewLogSink creates a sink that logs reports
func NewLogSink(logger logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &LogSink{
		logger: logger.WithFields(logging.Fields{"component": "result_sink"}),
	}
}

func (s *LogSink) Publish(report capture.Report) error {
	if report.Aborted || report.Result == nil {
		s.logger.Warn("Capture aborted", logging.Fields{
			"cycle":  report.Cycle,
			"reason": report.Reason,
		})
		return nil
	}

	r := report.Result
	fields := logging.Fields{
		"cycle":     report.Cycle,
		"amplitude": r.Amplitude,
		"waveform":  r.Waveform.String(),
		"samples":   r.SampleCount,
	}
	if r.HasFrequency() {
		fields["frequency_hz"] = r.FrequencyHz
	} else {
		fields["frequency"] = NoFrequency
	}
	s.logger.Info("Capture analysed", fields)
	return nil
}

// MultiSink publishes to every sink and joins their errors
type MultiSink []capture.ResultSink

func (m MultiSink) Publish(report capture.Report) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Publish(report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Display prints status lines and reports, like the front panel of the
// capture device.
type Display struct {
	*WriterSink
	quiet bool
}

// NewDisplay creates a display on w. A quiet display suppresses status lines.
func NewDisplay(w io.Writer, formatter Formatter, quiet bool) *Display {
	return &Display{
		WriterSink: NewWriterSink(w, formatter),
		quiet:      quiet,
	}
}

// ShowStatus prints a one-line status message
func (d *Display) ShowStatus(status string) {
	if d.quiet {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.w, status)
}
