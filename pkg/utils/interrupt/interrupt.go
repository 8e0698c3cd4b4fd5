// Package interrupt is a registry of cleanup handlers run when the process
// receives a termination signal. Handlers run in reverse registration order
// so later-constructed resources tear down first.
package interrupt

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"lantern.dev/pkg/utils/log"
)

var (
	mx       sync.Mutex
	handlers []func()
	started  bool
	// Done is closed after all handlers have run.
	Done = make(chan struct{})
)

// AddHandler registers a function to run on interrupt. The listener
// goroutine starts on the first registration.
func AddHandler(f func()) {
	mx.Lock()
	defer mx.Unlock()
	handlers = append(handlers, f)
	if !started {
		started = true
		go listen()
	}
}

func listen() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	sig := <-sigs
	log.I.F("received signal %v, shutting down", sig)
	Request()
}

// Request runs all registered handlers as though a signal had arrived.
func Request() {
	mx.Lock()
	defer mx.Unlock()
	for i := len(handlers) - 1; i >= 0; i-- {
		handlers[i]()
	}
	handlers = nil
	select {
	case <-Done:
	default:
		close(Done)
	}
}
