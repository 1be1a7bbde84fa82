package capture

import "time"

// Sample is a single analog reading
type Sample = int

// Fixed analog range of a Sample
const (
	MinSample Sample = 0
	MaxSample Sample = 1023
)

// SampleSource yields one sample per call, in [MinSample, MaxSample]
type SampleSource interface {
	Read() Sample
}

// Event is an edge produced by a TriggerSource
type Event int

const (
	EventNone Event = iota
	EventStart
	EventStop
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventStop:
		return "stop"
	default:
		return "none"
	}
}

// TriggerSource produces debounced start/stop edges, polled once per tick
type TriggerSource interface {
	Poll() Event
}

// ResultSink receives the outcome of every finished or aborted capture
type ResultSink interface {
	Publish(report Report) error
}

// Clock supplies sample timestamps
type Clock interface {
	Now() time.Time
}
