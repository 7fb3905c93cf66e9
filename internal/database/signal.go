package database

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context canceled on SIGTERM or SIGINT. A
// profiling run in flight observes the cancellation through its worker
// pool and tears down without finishing the remaining units.
func SetupSignalHandler() context.Context {
	return SetupSignalHandlerWithCallback(nil)
}

// SetupSignalHandlerWithCallback is SetupSignalHandler with a hook that
// runs before cancellation, used to log which signal ended the run.
func SetupSignalHandlerWithCallback(callback func(os.Signal)) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer cancel()
		select {
		case sig := <-sigChan:
			if callback != nil {
				callback(sig)
			}
		case <-ctx.Done():
		}
	}()

	return ctx
}
