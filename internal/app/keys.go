package app

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/RyanBlaney/wavecap/pkg/capture"
	"github.com/RyanBlaney/wavecap/pkg/trigger"
)

// keyNames maps typed lines to the two capture buttons
var keyNames = map[string]capture.Event{
	"s":     capture.EventStart,
	"start": capture.EventStart,
	"x":     capture.EventStop,
	"stop":  capture.EventStop,
}

// keyPad turns typed keys into button levels. Each key press reads as held
// for one poll and released on the next, so repeated presses of the same
// key each produce an edge.
type keyPad struct {
	mu      sync.Mutex
	presses map[capture.Event]int
	down    map[capture.Event]bool
	closed  bool
}

func newKeyPad() *keyPad {
	return &keyPad{
		presses: make(map[capture.Event]int),
		down:    make(map[capture.Event]bool),
	}
}

func (k *keyPad) press(ev capture.Event) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.closed {
		k.presses[ev]++
	}
}

func (k *keyPad) close() {
	k.mu.Lock()
	k.closed = true
	k.mu.Unlock()
}

// level returns the reader for one button
func (k *keyPad) level(ev capture.Event) trigger.LevelReader {
	return func() bool {
		k.mu.Lock()
		defer k.mu.Unlock()
		if k.down[ev] {
			k.down[ev] = false
			return false
		}
		if k.presses[ev] > 0 {
			k.presses[ev]--
			k.down[ev] = true
			return true
		}
		return false
	}
}

// idle reports whether input has ended and every press was read
func (k *keyPad) idle() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.closed {
		return false
	}
	for ev, n := range k.presses {
		if n > 0 || k.down[ev] {
			return false
		}
	}
	return true
}

// keyTrigger polls the button pair and finishes once input ends
type keyTrigger struct {
	capture.TriggerSource
	pad *keyPad
}

func (t *keyTrigger) Done() bool {
	return t.pad.idle()
}

// newKeyTrigger builds the button trigger over a key pad. With stopLevel
// the stop key fires on every poll while held.
func newKeyTrigger(pad *keyPad, stopLevel bool) *keyTrigger {
	start := pad.level(capture.EventStart)
	stop := pad.level(capture.EventStop)

	var buttons capture.TriggerSource
	if stopLevel {
		buttons = trigger.NewLevels(start, stop)
	} else {
		buttons = trigger.NewButtons(start, stop)
	}
	return &keyTrigger{TriggerSource: buttons, pad: pad}
}

// watchKeys reads one key per line from in until end of input, "q" or ctx
// ends. The reader goroutine may outlive ctx while blocked on input.
func watchKeys(ctx context.Context, in io.Reader, pad *keyPad, logger logging.Logger) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Error(err, "Failed to read trigger keys")
		}
	}()

	go func() {
		defer pad.close()
		for {
			select {
			case <-ctx.Done():
				return
			case line, ok := <-lines:
				if !ok {
					return
				}
				key := strings.ToLower(strings.TrimSpace(line))
				if key == "q" || key == "quit" {
					logger.Debug("Trigger keys closed")
					return
				}
				ev, known := keyNames[key]
				if !known {
					if key != "" {
						logger.Warn("Unknown trigger key", logging.Fields{"key": key})
					}
					continue
				}
				logger.Debug("Trigger key pressed", logging.Fields{
					"key":   key,
					"event": ev.String(),
				})
				pad.press(ev)
			}
		}
	}()
}
