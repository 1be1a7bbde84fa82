package trigger

import (
	"time"

	"github.com/RyanBlaney/wavecap/pkg/capture"
)

// ScheduleConfig describes a timed sequence of captures
type ScheduleConfig struct {
	StartAfter time.Duration `json:"start_after" mapstructure:"start_after"`
	Duration   time.Duration `json:"duration" mapstructure:"duration"`
	Gap        time.Duration `json:"gap" mapstructure:"gap"`
	// Cycles is the number of captures; zero repeats forever
	Cycles int `json:"cycles" mapstructure:"cycles"`
}

// Schedule fires Start after StartAfter, Stop Duration later, then waits Gap
// before the next cycle.
type Schedule struct {
	clock     capture.Clock
	config    ScheduleConfig
	next      time.Time
	capturing bool
	completed int
}

// NewSchedule creates a schedule anchored at the clock's current time
func NewSchedule(clock capture.Clock, config ScheduleConfig) *Schedule {
	if clock == nil {
		clock = capture.SystemClock{}
	}
	return &Schedule{
		clock:  clock,
		config: config,
		next:   clock.Now().Add(config.StartAfter),
	}
}

func (s *Schedule) Poll() capture.Event {
	if s.Done() {
		return capture.EventNone
	}

	now := s.clock.Now()
	if now.Before(s.next) {
		return capture.EventNone
	}

	if !s.capturing {
		s.capturing = true
		s.next = now.Add(s.config.Duration)
		return capture.EventStart
	}

	s.capturing = false
	s.completed++
	s.next = now.Add(s.config.Gap)
	return capture.EventStop
}

// Done reports whether every configured cycle has been stopped
func (s *Schedule) Done() bool {
	return s.config.Cycles > 0 && s.completed >= s.config.Cycles
}

// Completed returns the number of finished cycles
func (s *Schedule) Completed() int {
	return s.completed
}
