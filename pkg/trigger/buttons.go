package trigger

import "github.com/RyanBlaney/wavecap/pkg/capture"

// LevelReader reports whether a button is currently held down. Readings are
// expected to be debounced already.
type LevelReader func() bool

// latch turns a level into a single edge per press
type latch struct {
	read    LevelReader
	pressed bool
}

func (l *latch) pressedEdge() bool {
	if !l.read() {
		l.pressed = false
		return false
	}
	if l.pressed {
		return false
	}
	l.pressed = true
	return true
}

// Buttons turns a start button and a stop button into edge events. Holding a
// button produces one event; it has to be released before it fires again.
type Buttons struct {
	start   latch
	stop    latch
	pending []capture.Event
}

// NewButtons creates an edge-triggered start/stop pair
func NewButtons(start, stop LevelReader) *Buttons {
	return &Buttons{
		start: latch{read: start},
		stop:  latch{read: stop},
	}
}

// Poll samples both buttons. If both were pressed since the last poll, start
// is returned first and stop on the following poll.
func (b *Buttons) Poll() capture.Event {
	if b.start.pressedEdge() {
		b.pending = append(b.pending, capture.EventStart)
	}
	if b.stop.pressedEdge() {
		b.pending = append(b.pending, capture.EventStop)
	}
	return popEvent(&b.pending)
}

// Levels is the level-triggered variant: start is still edge-triggered but
// stop fires on every poll while the stop button is held.
type Levels struct {
	start latch
	stop  LevelReader
}

// NewLevels creates a trigger with a level-triggered stop
func NewLevels(start, stop LevelReader) *Levels {
	return &Levels{
		start: latch{read: start},
		stop:  stop,
	}
}

func (l *Levels) Poll() capture.Event {
	started := l.start.pressedEdge()
	stopping := l.stop()

	switch {
	case started:
		return capture.EventStart
	case stopping:
		return capture.EventStop
	default:
		return capture.EventNone
	}
}

func popEvent(queue *[]capture.Event) capture.Event {
	if len(*queue) == 0 {
		return capture.EventNone
	}
	ev := (*queue)[0]
	*queue = (*queue)[1:]
	return ev
}
