package context

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/assetnote/rawfetch/pkg/log"
)

var (
	ctx            context.Context
	cancel         context.CancelFunc
	ctxInitialized sync.Once

	exit = os.Exit
)

// WithInterrupt returns a child of parent that is cancelled on the first SIGINT/SIGTERM.
// A second signal exits the process immediately, for when an in-flight request refuses to die.
func WithInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	c, cancel := context.WithCancel(parent)
	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go watchSignals(c, cancel, sig)
	return c, cancel
}

func watchSignals(c context.Context, cancel context.CancelFunc, sig chan os.Signal) {
	defer signal.Stop(sig)

	interrupts := 0
	done := c.Done()
	for {
		select {
		case <-sig:
			interrupts++
			if interrupts > 1 {
				log.Info().Msg("Received multiple interrupt signals. Exiting")
				exit(1)
				return
			}
			log.Info().Msg("Received interrupt signal. Aborting in-flight requests")
			cancel()
		case <-done:
			if interrupts == 0 {
				return
			}
			// cancelled by the first signal, keep listening for the second
			done = nil
		}
	}
}

// Context returns the process wide interruptible context, creating it on first use.
// Safe to call from multiple goroutines.
func Context() context.Context {
	ctxInitialized.Do(func() {
		ctx, cancel = WithInterrupt(context.Background())
	})
	return ctx
}

// Cancel cancels the process wide context
func Cancel() {
	Context()
	cancel()
}
