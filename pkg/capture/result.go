package capture

import "time"

// AnalysisResult is what a finished capture measured
type AnalysisResult struct {
	Amplitude   int          `json:"amplitude" yaml:"amplitude"`
	FrequencyHz float64      `json:"frequency_hz" yaml:"frequency_hz"`
	Waveform    WaveformKind `json:"waveform" yaml:"waveform"`

	SampleCount int           `json:"sample_count" yaml:"sample_count"`
	Min         Sample        `json:"min" yaml:"min"`
	Max         Sample        `json:"max" yaml:"max"`
	Period      time.Duration `json:"period" yaml:"period"`
	Mean        float64       `json:"mean" yaml:"mean"`
	StdDev      float64       `json:"std_dev" yaml:"std_dev"`
	Votes       Votes         `json:"votes" yaml:"votes"`
	CapturedAt  time.Time     `json:"captured_at" yaml:"captured_at"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

// HasFrequency is false when no debounced crossing pair was observed
func (r AnalysisResult) HasFrequency() bool {
	return r.FrequencyHz > 0
}

// Report is delivered to a ResultSink after each capture. Exactly one of
// Result or Aborted is set.
type Report struct {
	Result    *AnalysisResult `json:"result,omitempty" yaml:"result,omitempty"`
	Aborted   bool            `json:"aborted" yaml:"aborted"`
	Reason    string          `json:"reason,omitempty" yaml:"reason,omitempty"`
	Cycle     int             `json:"cycle" yaml:"cycle"`
	Timestamp time.Time       `json:"timestamp" yaml:"timestamp"`
}

// NewResultReport wraps a finished analysis
func NewResultReport(result AnalysisResult, cycle int, at time.Time) Report {
	return Report{
		Result:    &result,
		Cycle:     cycle,
		Timestamp: at,
	}
}

// NewAbortReport describes a capture that ended without a result
func NewAbortReport(cause error, cycle int, at time.Time) Report {
	reason := "capture aborted"
	if cause != nil {
		reason = "capture aborted: " + cause.Error()
	}
	return Report{
		Aborted:   true,
		Reason:    reason,
		Cycle:     cycle,
		Timestamp: at,
	}
}
