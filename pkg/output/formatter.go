package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	commonout "github.com/RyanBlaney/latency-benchmark-common/output"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/RyanBlaney/wavecap/pkg/capture"
)

// Status lines shown while the monitor runs
const (
	StatusWaiting   = "Waiting..."
	StatusCapturing = "Capturing..."
	StatusCaptured  = "Data captured"
)

// NoFrequency is printed when no period could be measured
const NoFrequency = "could not be determined"

// Formatter renders a capture report
type Formatter interface {
	Format(report capture.Report) ([]byte, error)
}

// NewFormatter returns the formatter for json, yaml, csv or table
func NewFormatter(format string, precision int) (Formatter, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONFormatter(true), nil
	case "yaml", "yml":
		return NewYAMLFormatter(), nil
	case "csv":
		return &CSVFormatter{Header: true}, nil
	case "table", "":
		return &TableFormatter{Precision: precision}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// DocumentFormatter renders each report as one structured document with a
// shared output formatter. Prefix and Suffix frame documents in a stream.
type DocumentFormatter struct {
	Encoder commonout.Formatter
	Pretty  bool
	Prefix  string
	Suffix  string
}

// NewJSONFormatter writes one JSON document per report, newline terminated
// so a stream of reports decodes in order
func NewJSONFormatter(pretty bool) *DocumentFormatter {
	return &DocumentFormatter{
		Encoder: &commonout.JSONFormatter{},
		Pretty:  pretty,
		Suffix:  "\n",
	}
}

// NewYAMLFormatter writes one YAML document per report
func NewYAMLFormatter() *DocumentFormatter {
	return &DocumentFormatter{
		Encoder: &commonout.YAMLFormatter{},
		Pretty:  true,
		Prefix:  "---\n",
	}
}

func (f *DocumentFormatter) Format(report capture.Report) ([]byte, error) {
	data, err := f.Encoder.Format(report, f.Pretty)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	out := make([]byte, 0, len(f.Prefix)+len(data)+len(f.Suffix))
	out = append(out, f.Prefix...)
	out = append(out, data...)
	out = append(out, f.Suffix...)
	return out, nil
}

var csvHeader = []string{
	"cycle", "timestamp", "aborted", "reason", "waveform", "amplitude",
	"frequency_hz", "period_ms", "sample_count", "min", "max", "mean", "std_dev",
}

// CSVFormatter writes one row per report. The header is written with the
// first row only.
type CSVFormatter struct {
	Header bool
	wrote  bool
}

func (f *CSVFormatter) Format(report capture.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if f.Header && !f.wrote {
		if err := w.Write(csvHeader); err != nil {
			return nil, fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	row := []string{
		strconv.Itoa(report.Cycle),
		report.Timestamp.Format(time.RFC3339Nano),
		strconv.FormatBool(report.Aborted),
		report.Reason,
		"", "", "", "", "", "", "", "", "",
	}
	if r := report.Result; r != nil {
		row[4] = r.Waveform.String()
		row[5] = strconv.Itoa(r.Amplitude)
		row[6] = strconv.FormatFloat(r.FrequencyHz, 'f', -1, 64)
		row[7] = strconv.FormatFloat(float64(r.Period)/float64(time.Millisecond), 'f', -1, 64)
		row[8] = strconv.Itoa(r.SampleCount)
		row[9] = strconv.Itoa(r.Min)
		row[10] = strconv.Itoa(r.Max)
		row[11] = strconv.FormatFloat(r.Mean, 'f', 3, 64)
		row[12] = strconv.FormatFloat(r.StdDev, 'f', 3, 64)
	}

	if err := w.Write(row); err != nil {
		return nil, fmt.Errorf("failed to write CSV row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	f.wrote = true
	return buf.Bytes(), nil
}

// TableFormatter writes the human readable summary
type TableFormatter struct {
	Precision int
}

func (f *TableFormatter) Format(report capture.Report) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "\nCAPTURE #%d\n", report.Cycle)
	b.WriteString(strings.Repeat("=", 40) + "\n")

	if report.Aborted || report.Result == nil {
		reason := report.Reason
		if reason == "" {
			reason = "capture aborted"
		}
		fmt.Fprintf(&b, "%s\n", upperFirst(reason))
		return []byte(b.String()), nil
	}

	r := report.Result
	writeRow(&b, "Amp", strconv.Itoa(r.Amplitude))
	writeRow(&b, "Freq", FormatFrequency(r.FrequencyHz, f.Precision))
	writeRow(&b, "Type", WaveformLabel(r.Waveform))
	writeRow(&b, "Samples", strconv.Itoa(r.SampleCount))
	writeRow(&b, "Range", fmt.Sprintf("%d .. %d", r.Min, r.Max))
	writeRow(&b, "Mean", strconv.FormatFloat(r.Mean, 'f', f.Precision, 64))
	writeRow(&b, "Std Dev", strconv.FormatFloat(r.StdDev, 'f', f.Precision, 64))
	writeRow(&b, "Votes", fmt.Sprintf("sine=%d square=%d triangle=%d",
		r.Votes.Sinusoidal, r.Votes.Square, r.Votes.Triangular))
	writeRow(&b, "Duration", r.Duration.String())

	return []byte(b.String()), nil
}

func writeRow(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "%-10s %s\n", key+":", value)
}

// FormatFrequency renders a frequency in Hz, or NoFrequency for zero
func FormatFrequency(hz float64, precision int) string {
	if hz <= 0 {
		return NoFrequency
	}
	if precision < 0 {
		precision = 2
	}
	return strconv.FormatFloat(hz, 'f', precision, 64) + " Hz"
}

// WaveformLabel returns the display name of a waveform kind
func WaveformLabel(kind capture.WaveformKind) string {
	if kind == capture.Unidentified {
		return "No id."
	}
	// A Caser keeps state between calls and is not safe to share
	return cases.Title(language.English).String(kind.String())
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
