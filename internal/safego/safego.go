package safego

import (
	"runtime/debug"
	"sync"

	"github.com/andyrewlee/rewatch/internal/logging"
)

// OnPanic is invoked after a recovered panic has been logged. The watch loop
// registers a cancel function here so that a crashed helper goroutine tears
// the session down instead of leaving a frozen display behind.
type OnPanic func(name string, recovered any, stack []byte)

var (
	onPanicMu sync.RWMutex
	onPanic   OnPanic
)

// SetOnPanic registers the global panic notification. Pass nil to clear it.
func SetOnPanic(fn OnPanic) {
	onPanicMu.Lock()
	onPanic = fn
	onPanicMu.Unlock()
}

// Run executes fn and converts panics into logged errors.
// This does not recover from runtime-fatal errors (e.g., concurrent map writes).
func Run(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			label := name
			if label == "" {
				label = "goroutine"
			}
			stack := debug.Stack()
			logging.Error("panic in %s: %v\n%s", label, r, stack)
			onPanicMu.RLock()
			notify := onPanic
			onPanicMu.RUnlock()
			if notify != nil {
				func() {
					defer func() { _ = recover() }()
					notify(label, r, stack)
				}()
			}
		}
	}()
	fn()
}

// Go runs fn in a new goroutine with panic recovery.
func Go(name string, fn func()) {
	go Run(name, fn)
}
