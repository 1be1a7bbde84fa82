package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/RyanBlaney/wavecap/pkg/capture"
	"github.com/RyanBlaney/wavecap/pkg/trigger"
)

// signalEvents maps process signals to the two capture buttons
var signalEvents = map[os.Signal]capture.Event{
	syscall.SIGUSR1: capture.EventStart,
	syscall.SIGUSR2: capture.EventStop,
}

// watchSignals fires manual trigger events on SIGUSR1/SIGUSR2 until ctx ends
// or the returned stop function is called.
func watchSignals(ctx context.Context, manual *trigger.Manual, logger logging.Logger) func() {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, syscall.SIGUSR1, syscall.SIGUSR2)

	done := make(chan struct{})
	go func() {
		defer manual.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case sig := <-ch:
				forwardSignal(sig, manual, logger)
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

func forwardSignal(sig os.Signal, manual *trigger.Manual, logger logging.Logger) {
	ev, ok := signalEvents[sig]
	if !ok {
		return
	}
	logger.Debug("Trigger signal received", logging.Fields{
		"signal": sig.String(),
		"event":  ev.String(),
	})
	manual.Fire(ev)
}
