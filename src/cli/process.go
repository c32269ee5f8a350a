package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	atexitMutex    sync.Mutex
	atexitHandlers []func()
)

// Context returns a context that is cancelled when the process receives a terminating signal.
// A second signal exits the process immediately.
func Context() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go handleSignals(cancel)
	return ctx
}

// handleSignals waits until it receives a terminating signal from the OS, at which point it cancels
// the root context and executes any functions previously registered with AtExit.
func handleSignals(cancel context.CancelFunc) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	sig := <-ch
	log.Info("Received signal %s", sig)
	cancel()
	runAtExit()
	sig = <-ch
	log.Warning("Received second signal %s, aborting", sig)
	exit(sig)
}

// AtExit registers a function to be run when the process is killed by a signal.
// Note that this is best-effort; we cannot guarantee that there are not other ways of exiting that
// bypass any mechanism we use here.
func AtExit(f func()) {
	atexitMutex.Lock()
	defer atexitMutex.Unlock()
	atexitHandlers = append(atexitHandlers, f)
}

// runAtExit runs every registered handler, most recently registered first.
func runAtExit() {
	atexitMutex.Lock()
	handlers := atexitHandlers
	atexitHandlers = nil
	atexitMutex.Unlock()
	for i := len(handlers) - 1; i >= 0; i-- {
		handlers[i]()
	}
}

// exit kills the process with an exit code suitable for the given signal.
func exit(sig os.Signal) {
	if s, ok := sig.(syscall.Signal); ok {
		os.Exit(128 + int(s))
	}
	os.Exit(1)
}
